// Package store persists the business working set as an XLSX workbook. The
// workbook doubles as the idempotency journal: the searched column survives
// restarts, so a rerun skips everything already attempted.
package store

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// columns is the workbook schema in write order.
var columns = []string{
	"name",
	"address",
	"website",
	"phone",
	"description",
	"rating",
	"reviews",
	"category",
	"keywords",
	"email",
	"facebook",
	"twitter",
	"instagram",
	"contact",
	"searched",
}

// Workbook reads and writes business records at a fixed path.
type Workbook struct {
	path string
}

// NewWorkbook creates a Workbook bound to path.
func NewWorkbook(path string) *Workbook {
	return &Workbook{path: path}
}

// Path returns the workbook location.
func (w *Workbook) Path() string { return w.path }

// Load reads all business records. Column positions are taken from the
// header row, so a sheet with reordered or extra columns still loads.
func (w *Workbook) Load() ([]*model.Business, error) {
	f, err := xlsx.OpenFile(w.path)
	if err != nil {
		return nil, eris.Wrap(err, "store: open workbook")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("store: workbook %s has no sheets", w.path)
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, nil
	}

	idx := headerIndex(sheet.Rows[0])
	if _, ok := idx["name"]; !ok {
		return nil, eris.Errorf("store: workbook %s missing name column", w.path)
	}

	var recs []*model.Business
	for _, row := range sheet.Rows[1:] {
		cells := rowToStrings(row)
		get := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(cells) {
				return ""
			}
			return strings.TrimSpace(cells[i])
		}

		rec := &model.Business{
			Name:        get("name"),
			Address:     get("address"),
			Website:     get("website"),
			Phone:       get("phone"),
			Description: get("description"),
			Rating:      get("rating"),
			Reviews:     get("reviews"),
			Category:    get("category"),
			Keywords:    get("keywords"),
			Email:       get("email"),
			Facebook:    get("facebook"),
			Twitter:     get("twitter"),
			Instagram:   get("instagram"),
			Contact:     get("contact"),
			Status:      model.ParseStatus(get("searched")),
		}

		// Skip fully blank padding rows some spreadsheet tools append.
		if rec.Name == "" && rec.Website == "" {
			continue
		}
		recs = append(recs, rec)
	}

	return recs, nil
}

// Save writes the full record collection back, replacing the file contents.
func (w *Workbook) Save(recs []*model.Business) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Leads")
	if err != nil {
		return eris.Wrap(err, "store: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range columns {
		header.AddCell().Value = col
	}

	for _, rec := range recs {
		row := sheet.AddRow()
		for _, col := range columns {
			row.AddCell().Value = fieldValue(rec, col)
		}
	}

	if err := f.Save(w.path); err != nil {
		return eris.Wrap(err, "store: save workbook")
	}
	return nil
}

func fieldValue(rec *model.Business, col string) string {
	switch col {
	case "name":
		return rec.Name
	case "address":
		return rec.Address
	case "website":
		return rec.Website
	case "phone":
		return rec.Phone
	case "description":
		return rec.Description
	case "rating":
		return rec.Rating
	case "reviews":
		return rec.Reviews
	case "category":
		return rec.Category
	case "keywords":
		return rec.Keywords
	case "email":
		return rec.Email
	case "facebook":
		return rec.Facebook
	case "twitter":
		return rec.Twitter
	case "instagram":
		return rec.Instagram
	case "contact":
		return rec.Contact
	case "searched":
		return string(rec.Status)
	}
	return ""
}

func headerIndex(row *xlsx.Row) map[string]int {
	idx := make(map[string]int, len(row.Cells))
	for i, cell := range row.Cells {
		name := strings.ToLower(strings.TrimSpace(cell.String()))
		if name != "" {
			idx[name] = i
		}
	}
	return idx
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
