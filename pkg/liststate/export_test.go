package liststate

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportRows() []testRow {
	return []testRow{
		{ID: "1", Name: "Aibek", Status: "active", City: "Almaty"},
		{ID: "2", Name: "Smith, John", Status: "inactive", City: "Astana"},
		{ID: "3", Name: `Dana "DJ"`, Status: "active", City: "Almaty, Medeu"},
		{ID: "4", Name: "Timur", Status: "blocked", City: "Aktau"},
	}
}

func TestHandleExport_Golden(t *testing.T) {
	e := newTestEngine(exportRows())

	out, err := e.HandleExport()
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "export_all", []byte(out))
}

func TestHandleExport_UsesFilteredNotPage(t *testing.T) {
	e := newTestEngine(exportRows())
	e.SetPageSize(1)
	e.SetFilter(fieldStatus, "active")
	e.SetCurrentPage(2)

	out, err := e.HandleExport()
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "export_active", []byte(out))
}

func TestHandleExport_CustomDelimiter(t *testing.T) {
	cfg := testConfig()
	cfg.Delimiter = ';'
	e := New([]testRow{{ID: "1", Name: "a;b", Status: "x,y", City: "c"}}, cfg)

	out, err := e.HandleExport()
	require.NoError(t, err)
	assert.Equal(t, "name;status;city\n\"a;b\";x,y;c", out)
}

func TestHandleExport_EmptyFilteredSet(t *testing.T) {
	e := newTestEngine(exportRows())
	e.SetSearchTerm("nobody")

	out, err := e.HandleExport()
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestHandleExport_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.EnableExport = false
	e := New(exportRows(), cfg)

	_, err := e.HandleExport()
	assert.ErrorIs(t, err, ErrExportDisabled)
}
