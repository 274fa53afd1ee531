package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/leadgen-cli/internal/model"
)

func TestWorkbook_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.xlsx")
	w := NewWorkbook(path)

	recs := []*model.Business{
		{
			Name:    "Acme Dental",
			Address: "123 Main St, Austin, TX",
			Website: "https://acmedental.com",
			Email:   "info@acmedental.com || drsmith@acmedental.com",
			Twitter: "https://twitter.com/acmedental",
			Status:  model.StatusDone,
		},
		{
			Name:    "No Site Plumbing",
			Address: "456 Oak Ave",
			Status:  model.StatusPending,
		},
	}

	require.NoError(t, w.Save(recs))

	loaded, err := w.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	assert.Equal(t, "Acme Dental", loaded[0].Name)
	assert.Equal(t, "https://acmedental.com", loaded[0].Website)
	assert.Equal(t, "info@acmedental.com || drsmith@acmedental.com", loaded[0].Email)
	assert.Equal(t, "https://twitter.com/acmedental", loaded[0].Twitter)
	assert.Equal(t, model.StatusDone, loaded[0].Status)

	assert.Equal(t, "No Site Plumbing", loaded[1].Name)
	assert.Equal(t, model.StatusPending, loaded[1].Status)
}

func TestWorkbook_LoadReorderedColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.xlsx")

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	require.NoError(t, err)

	header := sheet.AddRow()
	for _, col := range []string{"website", "searched", "name", "extra_col"} {
		header.AddCell().Value = col
	}
	row := sheet.AddRow()
	row.AddCell().Value = "https://acme.com"
	row.AddCell().Value = "yes"
	row.AddCell().Value = "Acme"
	row.AddCell().Value = "ignored"
	require.NoError(t, f.Save(path))

	loaded, err := NewWorkbook(path).Load()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Acme", loaded[0].Name)
	assert.Equal(t, "https://acme.com", loaded[0].Website)
	assert.Equal(t, model.StatusDone, loaded[0].Status)
}

func TestWorkbook_LoadMissingFile(t *testing.T) {
	_, err := NewWorkbook(filepath.Join(t.TempDir(), "nope.xlsx")).Load()
	assert.Error(t, err)
}

func TestWorkbook_LoadMissingNameColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.xlsx")

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	require.NoError(t, err)
	sheet.AddRow().AddCell().Value = "something_else"
	require.NoError(t, f.Save(path))

	_, err = NewWorkbook(path).Load()
	assert.Error(t, err)
}

func TestWorkbook_SkipsBlankRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.xlsx")
	w := NewWorkbook(path)

	require.NoError(t, w.Save([]*model.Business{
		{Name: "Acme", Website: "https://acme.com"},
		{},
	}))

	loaded, err := w.Load()
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}
