package service

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"dispatch-console/internal/console/domain"
	"dispatch-console/pkg/config"
)

type memStore[T interface{ RowID() string }] struct {
	rows     []T
	listErr  error
	writeErr error
	created  []T
	updated  []T
	deleted  []string
	lists    int

	// save turns an incoming row into the row the store keeps, the way a
	// database fills defaults or persists only some columns. prev is the
	// stored row on update and the zero value on create.
	save func(prev, in T) T
}

func (m *memStore[T]) List(context.Context) ([]T, error) {
	m.lists++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return slices.Clone(m.rows), nil
}

func (m *memStore[T]) Create(_ context.Context, item T) (T, error) {
	var zero T
	if m.writeErr != nil {
		return zero, m.writeErr
	}
	if m.save != nil {
		item = m.save(zero, item)
	}
	m.created = append(m.created, item)
	m.rows = append([]T{item}, m.rows...)
	return item, nil
}

func (m *memStore[T]) Update(_ context.Context, item T) (T, error) {
	var zero T
	if m.writeErr != nil {
		return zero, m.writeErr
	}
	i := m.index(item.RowID())
	if i < 0 {
		return zero, domain.ErrNotFound
	}
	if m.save != nil {
		item = m.save(m.rows[i], item)
	}
	m.rows[i] = item
	m.updated = append(m.updated, item)
	return item, nil
}

func (m *memStore[T]) Delete(_ context.Context, id string) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	i := m.index(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	m.rows = slices.Delete(m.rows, i, i+1)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *memStore[T]) DeleteMany(_ context.Context, ids []string) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.rows = slices.DeleteFunc(m.rows, func(item T) bool { return slices.Contains(ids, item.RowID()) })
	m.deleted = append(m.deleted, ids...)
	return nil
}

func (m *memStore[T]) index(id string) int {
	return slices.IndexFunc(m.rows, func(item T) bool { return item.RowID() == id })
}

type published struct {
	exchange, key string
	body          []byte
}

type fakePublisher struct {
	mu   sync.Mutex
	sent []published
	err  error
}

func (p *fakePublisher) Publish(_ context.Context, exchange, key string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, published{exchange, key, body})
	return nil
}

var errStoreDown = errors.New("store down")

var fixedNow = time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)

func testDrivers() []domain.Driver {
	return []domain.Driver{
		{ID: "d1", Name: "Aibek Nurlanov", Phone: "+77010000001", LicenseNumber: "KZ-001", VehicleClass: domain.VehicleEconomy, PlateNumber: "001 AAA 02", Status: domain.DriverAvailable, Rating: 4.8},
		{ID: "d2", Name: "Dana Seitkali", Phone: "+77010000002", LicenseNumber: "KZ-002", VehicleClass: domain.VehiclePremium, PlateNumber: "002 BBB 02", Status: domain.DriverOffline, Rating: 4.9},
		{ID: "d3", Name: "Erlan Abenov", Phone: "", LicenseNumber: "KZ-003", VehicleClass: domain.VehicleEconomy, PlateNumber: "003 CCC 02", Status: domain.DriverOffline, Rating: 4.1},
		{ID: "d4", Name: "Gulnara Tokayeva", Phone: "+77010000004", LicenseNumber: "KZ-004", VehicleClass: domain.VehicleLuxury, PlateNumber: "004 DDD 02", Status: domain.DriverBusy, Rating: 5},
		{ID: "d5", Name: "Marat Zhunusov", Phone: "+77010000005", LicenseNumber: "KZ-005", VehicleClass: domain.VehicleEconomy, PlateNumber: "005 EEE 02", Status: domain.DriverAvailable, Rating: 3.9},
	}
}

func testConsole() config.ConsoleConfig {
	return config.ConsoleConfig{DefaultPageSize: 2}
}

func testDeps(pub Publisher) Deps {
	return Deps{Publisher: pub, Now: func() time.Time { return fixedNow }}
}

type testBed struct {
	drivers *memStore[domain.Driver]
	fares   *memStore[domain.Fare]
	pub     *fakePublisher
	reg     *Registry
}

func newTestBed() *testBed {
	tb := &testBed{
		drivers: &memStore[domain.Driver]{rows: testDrivers()},
		fares:   &memStore[domain.Fare]{rows: faresWithIDs()},
		pub:     &fakePublisher{},
	}
	tb.reg = NewConsoleRegistry(Stores{Drivers: tb.drivers, Fares: tb.fares}, testConsole(), testDeps(tb.pub))
	return tb
}

func faresWithIDs() []domain.Fare {
	fares := domain.DefaultFares()
	for i := range fares {
		fares[i].ID = string(fares[i].VehicleClass)
	}
	return fares
}

func rows[T any](v View) []T {
	r, _ := v.Rows.([]T)
	return r
}
