package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"dispatch-console/internal/console/domain"
	"dispatch-console/pkg/liststate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDrivers(t *testing.T, tb *testBed) Screen {
	t.Helper()
	s, err := tb.reg.Open(context.Background(), ScreenDrivers)
	require.NoError(t, err)
	return s
}

func apply(t *testing.T, s Screen, cmd Command) View {
	t.Helper()
	reply, err := s.Apply(context.Background(), cmd)
	require.NoError(t, err)
	return reply.View
}

func driverIDs(v View) []string {
	var ids []string
	for _, d := range rows[domain.Driver](v) {
		ids = append(ids, d.ID)
	}
	return ids
}

func TestListScreen_OpenView(t *testing.T) {
	s := openDrivers(t, newTestBed())

	v := s.View()
	assert.Equal(t, ScreenDrivers, v.Screen)
	assert.Equal(t, []string{"d1", "d2"}, driverIDs(v))
	assert.Equal(t, 1, v.Page)
	assert.Equal(t, 2, v.PageSize)
	assert.Equal(t, 5, v.TotalItems)
	assert.Equal(t, 3, v.TotalPages)
	assert.Equal(t, 0, v.StartIndex)
	assert.Equal(t, 2, v.EndIndex)
	assert.True(t, v.HasNextPage)
	assert.False(t, v.HasPreviousPage)
	assert.True(t, v.BulkDelete)
	assert.True(t, v.Export)
	assert.Empty(t, v.SelectedIDs)
}

func TestListScreen_OpenFailsWhenStoreFails(t *testing.T) {
	tb := newTestBed()
	tb.drivers.listErr = errStoreDown

	_, err := tb.reg.Open(context.Background(), ScreenDrivers)
	assert.ErrorIs(t, err, errStoreDown)
}

func TestListScreen_SearchFilterPage(t *testing.T) {
	s := openDrivers(t, newTestBed())

	v := apply(t, s, Command{Type: CmdPage, Page: 3})
	assert.Equal(t, []string{"d5"}, driverIDs(v))

	v = apply(t, s, Command{Type: CmdSearch, Term: "ABENOV"})
	assert.Equal(t, 3, v.Page, "search keeps the page")
	assert.Equal(t, 1, v.TotalItems)
	assert.Empty(t, driverIDs(v))
	assert.Equal(t, "ABENOV", v.Search)

	apply(t, s, Command{Type: CmdSearch, Term: ""})
	v = apply(t, s, Command{Type: CmdFilter, Field: "status", Value: "OFFLINE"})
	assert.Equal(t, 1, v.Page, "filter resets the page")
	assert.Equal(t, []string{"d2", "d3"}, driverIDs(v))
	assert.Equal(t, map[string]string{"status": "OFFLINE"}, v.Filters)

	v = apply(t, s, Command{Type: CmdClearFilters})
	assert.Equal(t, 5, v.TotalItems)
	assert.Empty(t, v.Filters)

	v = apply(t, s, Command{Type: CmdPageSize, Size: 4})
	assert.Equal(t, []string{"d1", "d2", "d3", "d4"}, driverIDs(v))
	assert.Equal(t, 2, v.TotalPages)
}

func TestListScreen_CommandErrors(t *testing.T) {
	s := openDrivers(t, newTestBed())
	ctx := context.Background()

	_, err := s.Apply(ctx, Command{Type: CmdFilter, Field: "id", Value: "d1"})
	assert.ErrorIs(t, err, domain.ErrUnknownField)

	_, err = s.Apply(ctx, Command{Type: CmdPageSize, Size: 0})
	assert.ErrorIs(t, err, ErrBadCommand)

	_, err = s.Apply(ctx, Command{Type: "sort"})
	assert.ErrorIs(t, err, ErrUnknownCommand)

	_, err = s.Apply(ctx, Command{Type: CmdToggle})
	assert.ErrorIs(t, err, ErrBadCommand)

	_, err = s.Apply(ctx, Command{Type: CmdToggle, ID: "ghost"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, 2, s.View().PageSize)
}

func TestListScreen_Selection(t *testing.T) {
	s := openDrivers(t, newTestBed())

	v := apply(t, s, Command{Type: CmdToggle, ID: "d4"})
	assert.Equal(t, []string{"d4"}, v.SelectedIDs)

	v = apply(t, s, Command{Type: CmdToggleAll})
	assert.Equal(t, []string{"d4", "d1", "d2"}, v.SelectedIDs)
	assert.True(t, v.AllSelectedOnPage)

	v = apply(t, s, Command{Type: CmdToggleAll})
	assert.Equal(t, []string{"d4"}, v.SelectedIDs)

	v = apply(t, s, Command{Type: CmdClearSelection})
	assert.Empty(t, v.SelectedIDs)
}

func TestListScreen_ToggleDeletedRowDeselects(t *testing.T) {
	s := openDrivers(t, newTestBed())

	apply(t, s, Command{Type: CmdToggle, ID: "d1"})
	v := apply(t, s, Command{Type: CmdDelete, ID: "d1"})
	assert.Equal(t, []string{"d1"}, v.SelectedIDs, "single delete leaves the selection alone")

	v = apply(t, s, Command{Type: CmdToggle, ID: "d1"})
	assert.Empty(t, v.SelectedIDs)
}

func TestListScreen_Create(t *testing.T) {
	tb := newTestBed()
	s := openDrivers(t, tb)

	v := apply(t, s, Command{Type: CmdCreate, Item: json.RawMessage(`{"name":"New Driver","phone":"+77019999999","status":"OFFLINE"}`)})

	created := rows[domain.Driver](v)[0]
	assert.Equal(t, "New Driver", created.Name)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 6, v.TotalItems)
	require.Len(t, tb.drivers.created, 1)
	assert.Equal(t, created.ID, tb.drivers.created[0].ID)
}

func TestListScreen_CreateRejectedByStore(t *testing.T) {
	tb := newTestBed()
	s := openDrivers(t, tb)
	tb.drivers.writeErr = errStoreDown

	_, err := s.Apply(context.Background(), Command{Type: CmdCreate, Item: json.RawMessage(`{"name":"New Driver"}`)})
	assert.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, 5, s.View().TotalItems)
	assert.Equal(t, []string{"d1", "d2"}, driverIDs(s.View()))
}

func TestListScreen_CreateNeedsItem(t *testing.T) {
	s := openDrivers(t, newTestBed())

	_, err := s.Apply(context.Background(), Command{Type: CmdCreate})
	assert.ErrorIs(t, err, ErrBadCommand)

	_, err = s.Apply(context.Background(), Command{Type: CmdCreate, Item: json.RawMessage(`{"name":`)})
	assert.ErrorIs(t, err, ErrBadCommand)
}

func TestListScreen_Edit(t *testing.T) {
	tb := newTestBed()
	s := openDrivers(t, tb)

	v := apply(t, s, Command{Type: CmdEdit, Item: json.RawMessage(`{"id":"d2","name":"Dana Seitkali","status":"AVAILABLE"}`)})
	assert.Equal(t, domain.DriverAvailable, rows[domain.Driver](v)[1].Status)
	require.Len(t, tb.drivers.updated, 1)

	_, err := s.Apply(context.Background(), Command{Type: CmdEdit, Item: json.RawMessage(`{"id":"ghost","name":"x"}`)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 5, s.View().TotalItems)

	_, err = s.Apply(context.Background(), Command{Type: CmdEdit, Item: json.RawMessage(`{"name":"no id"}`)})
	assert.ErrorIs(t, err, ErrBadCommand)
}

func TestListScreen_Delete(t *testing.T) {
	tb := newTestBed()
	s := openDrivers(t, tb)

	v := apply(t, s, Command{Type: CmdDelete, ID: "d1"})
	assert.Equal(t, []string{"d2", "d3"}, driverIDs(v))
	assert.Equal(t, []string{"d1"}, tb.drivers.deleted)

	v = apply(t, s, Command{Type: CmdDelete, ID: "ghost"})
	assert.Equal(t, 4, v.TotalItems)

	tb.drivers.writeErr = errStoreDown
	_, err := s.Apply(context.Background(), Command{Type: CmdDelete, ID: "d2"})
	assert.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, 4, s.View().TotalItems)
}

func TestListScreen_BulkDelete(t *testing.T) {
	tb := newTestBed()
	s := openDrivers(t, tb)

	apply(t, s, Command{Type: CmdToggle, ID: "d1"})
	apply(t, s, Command{Type: CmdToggle, ID: "d3"})
	v := apply(t, s, Command{Type: CmdBulkDelete})

	assert.ElementsMatch(t, []string{"d1", "d3"}, tb.drivers.deleted)
	assert.Equal(t, 3, v.TotalItems)
	assert.Empty(t, v.SelectedIDs)
	assert.Equal(t, []string{"d2", "d4"}, driverIDs(v))
}

func TestListScreen_BulkDeleteStoreFailureKeepsRows(t *testing.T) {
	tb := newTestBed()
	s := openDrivers(t, tb)

	apply(t, s, Command{Type: CmdToggle, ID: "d1"})
	tb.drivers.writeErr = errStoreDown

	_, err := s.Apply(context.Background(), Command{Type: CmdBulkDelete})
	assert.ErrorIs(t, err, errStoreDown)
	v := s.View()
	assert.Equal(t, 5, v.TotalItems)
	assert.Equal(t, []string{"d1"}, v.SelectedIDs)
}

func TestListScreen_BulkDeleteDisabled(t *testing.T) {
	tb := newTestBed()
	s, err := tb.reg.Open(context.Background(), ScreenFares)
	require.NoError(t, err)

	apply(t, s, Command{Type: CmdToggle, ID: "ECONOMY"})
	_, err = s.Apply(context.Background(), Command{Type: CmdBulkDelete})

	assert.ErrorIs(t, err, liststate.ErrBulkDeleteDisabled)
	assert.Empty(t, tb.fares.deleted)
	assert.Equal(t, []string{"ECONOMY"}, s.View().SelectedIDs)
}

func TestListScreen_Refresh(t *testing.T) {
	tb := newTestBed()
	s := openDrivers(t, tb)

	apply(t, s, Command{Type: CmdPage, Page: 2})
	apply(t, s, Command{Type: CmdToggle, ID: "d3"})
	apply(t, s, Command{Type: CmdSearch, Term: "a"})

	tb.drivers.rows = tb.drivers.rows[:3]
	v := apply(t, s, Command{Type: CmdRefresh})

	assert.Equal(t, 2, tb.drivers.lists)
	assert.Equal(t, 1, v.Page)
	assert.Empty(t, v.SelectedIDs)
	assert.Equal(t, "a", v.Search, "refresh keeps the search")
	assert.Equal(t, 3, v.TotalItems)

	tb.drivers.listErr = errStoreDown
	_, err := s.Apply(context.Background(), Command{Type: CmdRefresh})
	assert.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, 3, s.View().TotalItems)
}

func TestListScreen_ConcurrentCommands(t *testing.T) {
	s := openDrivers(t, newTestBed())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				s.Apply(context.Background(), Command{Type: CmdToggle, ID: "d5"})
				return
			}
			s.View()
		}(i)
	}
	wg.Wait()

	assert.Empty(t, s.View().SelectedIDs, "an even number of toggles cancels out")
}

func testBookings() []domain.Booking {
	requested := fixedNow.Add(-time.Hour)
	return []domain.Booking{
		{ID: "b1", RideNumber: "RIDE-001", PassengerID: "u1", PassengerName: "Aibek", Status: domain.StatusRequested, VehicleClass: domain.VehicleEconomy, EstimatedFare: 1000, RequestedAt: requested},
		{ID: "b2", RideNumber: "RIDE-002", PassengerID: "u2", PassengerName: "Dana", DriverID: "d1", DriverName: "Aibek Nurlanov", Status: domain.StatusCompleted, VehicleClass: domain.VehiclePremium, EstimatedFare: 1500, RequestedAt: requested},
		{ID: "b3", RideNumber: "RIDE-003", PassengerID: "u3", PassengerName: "Erlan", Status: domain.StatusCancelled, VehicleClass: domain.VehicleEconomy, EstimatedFare: 800, RequestedAt: requested},
		{ID: "b4", RideNumber: "RIDE-004", PassengerID: "u4", PassengerName: "Gulnara", DriverID: "d4", DriverName: "Gulnara Tokayeva", Status: domain.StatusCompleted, VehicleClass: domain.VehicleLuxury, EstimatedFare: 2500, RequestedAt: requested},
	}
}

func openBookings(t *testing.T, store *memStore[domain.Booking]) Screen {
	t.Helper()
	reg := NewConsoleRegistry(Stores{Bookings: store}, testConsole(), testDeps(nil))
	s, err := reg.Open(context.Background(), ScreenBookings)
	require.NoError(t, err)
	return s
}

func TestListScreen_EditShowsStoredRow(t *testing.T) {
	driverNames := map[string]string{"d2": "Dana Seitkali"}
	store := &memStore[domain.Booking]{
		rows: testBookings(),
		// only the dispatch state is written, like the rides table update
		save: func(prev, in domain.Booking) domain.Booking {
			prev.Status = in.Status
			prev.DriverID = in.DriverID
			prev.DriverName = driverNames[in.DriverID]
			return prev
		},
	}
	s := openBookings(t, store)

	v := apply(t, s, Command{Type: CmdEdit, Item: json.RawMessage(
		`{"id":"b1","passenger_name":"Mallory","estimated_fare":1,"status":"MATCHED","driver_id":"d2"}`)})

	shown := rows[domain.Booking](v)[0]
	assert.Equal(t, store.rows[0], shown)
	assert.Equal(t, "Aibek", shown.PassengerName)
	assert.InDelta(t, 1000.0, shown.EstimatedFare, 0.001)
	assert.Equal(t, domain.StatusMatched, shown.Status)
	assert.Equal(t, "Dana Seitkali", shown.DriverName)

	exp, err := s.Export(FormatCSV)
	require.NoError(t, err)
	assert.NotContains(t, string(exp.Data), "Mallory")
}

func TestListScreen_CreateShowsStoredRow(t *testing.T) {
	tb := newTestBed()
	tb.drivers.save = func(_, in domain.Driver) domain.Driver {
		in.CreatedAt = fixedNow
		in.Rating = 5
		return in
	}
	s := openDrivers(t, tb)

	v := apply(t, s, Command{Type: CmdCreate, Item: json.RawMessage(`{"name":"New Driver","status":"OFFLINE"}`)})

	shown := rows[domain.Driver](v)[0]
	assert.Equal(t, fixedNow, shown.CreatedAt)
	assert.InDelta(t, 5.0, shown.Rating, 0.001)
	assert.Equal(t, tb.drivers.created[0], shown)
}

func TestListScreen_BookingsFilterByFinishedStatus(t *testing.T) {
	s := openBookings(t, &memStore[domain.Booking]{rows: testBookings()})

	v := apply(t, s, Command{Type: CmdFilter, Field: "status", Value: string(domain.StatusCompleted)})
	assert.Equal(t, 2, v.TotalItems)
	var ids []string
	for _, b := range rows[domain.Booking](v) {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []string{"b2", "b4"}, ids)

	v = apply(t, s, Command{Type: CmdFilter, Field: "status", Value: string(domain.StatusCancelled)})
	assert.Equal(t, 1, v.TotalItems)
	assert.Equal(t, "b3", rows[domain.Booking](v)[0].ID)
}
