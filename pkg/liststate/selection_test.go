package liststate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelection_PersistsAcrossNavigation(t *testing.T) {
	e := newTestEngine(numberedRows(9))
	x := e.PageSlice()[0]

	e.ToggleSelection(x)
	e.SetCurrentPage(2)

	assert.True(t, e.IsSelected(x))
	assert.Contains(t, e.SelectedIDs(), x.ID)
	assert.False(t, e.IsAllSelectedOnPage())
}

func TestSelection_PersistsAcrossSearchAndFilter(t *testing.T) {
	e := newTestEngine(numberedRows(9))
	e.ToggleSelection(testRow{ID: "2"})

	e.SetSearchTerm("driver 9")
	e.SetFilter(fieldStatus, "active")

	assert.Equal(t, []string{"2"}, e.SelectedIDs())
	assert.Equal(t, []string{"2"}, rowIDs(e.SelectedItems()))
}

func TestToggleSelection_ByIdentity(t *testing.T) {
	e := newTestEngine(numberedRows(3))

	e.ToggleSelection(testRow{ID: "2", Name: "stale copy"})
	fresh, _ := e.Find("2")
	assert.True(t, e.IsSelected(fresh))

	e.ToggleSelection(fresh)
	assert.False(t, e.IsSelected(fresh))
	assert.Empty(t, e.SelectedIDs())
}

func TestToggleAllSelection_PageScoped(t *testing.T) {
	e := newTestEngine(numberedRows(9))
	e.ToggleSelection(testRow{ID: "8"}) // page 3
	e.SetCurrentPage(2)

	e.ToggleAllSelection()
	assert.ElementsMatch(t, []string{"8", "4", "5", "6"}, e.SelectedIDs())
	assert.True(t, e.IsAllSelectedOnPage())

	e.ToggleAllSelection()
	assert.Equal(t, []string{"8"}, e.SelectedIDs())
	assert.False(t, e.IsAllSelectedOnPage())
}

func TestToggleAllSelection_CompletesPartialPage(t *testing.T) {
	e := newTestEngine(numberedRows(9))
	e.ToggleSelection(testRow{ID: "2"})

	e.ToggleAllSelection()

	assert.Equal(t, []string{"2", "1", "3"}, e.SelectedIDs())
	assert.True(t, e.IsAllSelectedOnPage())
}

func TestToggleAllSelection_EmptyPage(t *testing.T) {
	e := newTestEngine(numberedRows(2))
	e.ToggleSelection(testRow{ID: "1"})
	e.SetCurrentPage(4)

	assert.False(t, e.IsAllSelectedOnPage())
	e.ToggleAllSelection()
	assert.Equal(t, []string{"1"}, e.SelectedIDs())
}

func TestSelectedItems_SkipsUnknownIDs(t *testing.T) {
	e := newTestEngine(numberedRows(3))
	e.ToggleSelection(testRow{ID: "3"})
	e.ToggleSelection(testRow{ID: "ghost"})
	e.ToggleSelection(testRow{ID: "1"})

	assert.Equal(t, []string{"3", "ghost", "1"}, e.SelectedIDs())
	assert.Equal(t, []string{"1", "3"}, rowIDs(e.SelectedItems()))
}

func TestClearSelection(t *testing.T) {
	e := newTestEngine(numberedRows(3))
	e.ToggleAllSelection()
	e.ClearSelection()
	assert.Empty(t, e.SelectedIDs())
	assert.Empty(t, e.SelectedItems())
}
