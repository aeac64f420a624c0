package liststate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleCreate_PrependsWithGeneratedID(t *testing.T) {
	cfg := testConfig()
	cfg.NewID = sequence("drv")
	e := New(numberedRows(2), cfg)

	first := e.HandleCreate(testRow{Name: "New driver"})
	second := e.HandleCreate(testRow{Name: "Newer driver"})

	assert.Equal(t, "drv-1", first.ID)
	assert.Equal(t, "drv-2", second.ID)
	assert.Equal(t, []string{"drv-2", "drv-1", "1", "2"}, rowIDs(e.Data()))
}

func TestHandleCreate_DoesNotCheckUniqueness(t *testing.T) {
	cfg := testConfig()
	cfg.NewID = func() string { return "1" }
	e := New(numberedRows(2), cfg)

	e.HandleCreate(testRow{Name: "dup"})

	assert.Equal(t, []string{"1", "1", "2"}, rowIDs(e.Data()))
}

func TestHandleEdit(t *testing.T) {
	e := newTestEngine(numberedRows(3))

	ok := e.HandleEdit(testRow{ID: "2", Name: "Renamed"})
	require.True(t, ok)
	got, _ := e.Find("2")
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, []string{"1", "2", "3"}, rowIDs(e.Data()))

	before := e.Data()
	assert.False(t, e.HandleEdit(testRow{ID: "missing", Name: "x"}))
	assert.Equal(t, before, e.Data())
}

func TestHandleDelete_LeavesSelection(t *testing.T) {
	e := newTestEngine(numberedRows(3))
	e.ToggleSelection(testRow{ID: "2"})

	assert.True(t, e.HandleDelete("2"))

	assert.Equal(t, []string{"1", "3"}, rowIDs(e.Data()))
	assert.Equal(t, []string{"2"}, e.SelectedIDs())
	assert.Empty(t, e.SelectedItems())
}

func TestHandleDelete_Missing(t *testing.T) {
	e := newTestEngine(numberedRows(3))
	assert.False(t, e.HandleDelete("9"))
	assert.Len(t, e.Data(), 3)
}

func TestHandleBulkDelete(t *testing.T) {
	e := newTestEngine([]testRow{{ID: "1"}, {ID: "2"}, {ID: "3"}})
	e.ToggleSelection(testRow{ID: "1"})
	e.ToggleSelection(testRow{ID: "3"})

	removed, err := e.HandleBulkDelete()
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "3"}, rowIDs(removed))
	assert.Equal(t, []string{"2"}, rowIDs(e.Data()))
	assert.Empty(t, e.SelectedIDs())
}

func TestHandleBulkDelete_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.EnableBulkDelete = false
	e := New(numberedRows(3), cfg)
	e.ToggleSelection(testRow{ID: "1"})

	_, err := e.HandleBulkDelete()

	assert.ErrorIs(t, err, ErrBulkDeleteDisabled)
	assert.Len(t, e.Data(), 3)
	assert.Equal(t, []string{"1"}, e.SelectedIDs())
}
