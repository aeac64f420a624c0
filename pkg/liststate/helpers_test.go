package liststate

import (
	"fmt"
	"strconv"
)

type testField string

const (
	fieldName   testField = "name"
	fieldStatus testField = "status"
	fieldCity   testField = "city"
)

type testRow struct {
	ID     string
	Name   string
	Status string
	City   string
}

func (r testRow) RowID() string { return r.ID }

func (r testRow) Field(f testField) string {
	switch f {
	case fieldName:
		return r.Name
	case fieldStatus:
		return r.Status
	case fieldCity:
		return r.City
	}
	return ""
}

func (r testRow) WithRowID(id string) testRow {
	r.ID = id
	return r
}

func testConfig() Config[testField] {
	return Config[testField]{
		SearchKeys:       []testField{fieldName, fieldCity},
		Columns:          []testField{fieldName, fieldStatus, fieldCity},
		PageSize:         3,
		EnableBulkDelete: true,
		EnableExport:     true,
	}
}

// numberedRows returns n rows with ids "1".."n", alternating status.
func numberedRows(n int) []testRow {
	rows := make([]testRow, 0, n)
	for i := 1; i <= n; i++ {
		status := "active"
		if i%2 == 0 {
			status = "inactive"
		}
		rows = append(rows, testRow{
			ID:     strconv.Itoa(i),
			Name:   fmt.Sprintf("Driver %d", i),
			Status: status,
			City:   "Almaty",
		})
	}
	return rows
}

func newTestEngine(rows []testRow) *Engine[testRow, testField] {
	return New(rows, testConfig())
}

func rowIDs(rows []testRow) []string {
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	return ids
}

// sequence returns an id generator yielding prefix-1, prefix-2, ...
func sequence(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}
