package service

import (
	"bytes"
	"context"
	"fmt"

	"dispatch-console/pkg/liststate"

	"github.com/xuri/excelize/v2"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Export is a rendered report of a screen's filtered rows.
type Export struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Rows        int    `json:"rows"`
	Data        []byte `json:"data"`
}

// Query narrows a stateless export the same way the screen would.
type Query struct {
	Search  string
	Filters map[string]string
}

func (s *ListScreen[T, F]) Export(format string) (Export, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.export(format)
}

func (s *ListScreen[T, F]) export(format string) (Export, error) {
	if !s.engine.Config().EnableExport {
		return Export{}, liststate.ErrExportDisabled
	}

	rows := s.engine.Filtered()
	stamp := s.deps.Now().UTC().Format("20060102-150405")
	exp := Export{Rows: len(rows)}

	switch format {
	case "", FormatCSV:
		text, err := s.engine.HandleExport()
		if err != nil {
			return Export{}, err
		}
		exp.Filename = fmt.Sprintf("%s-%s.csv", s.def.Name, stamp)
		exp.ContentType = "text/csv; charset=utf-8"
		exp.Data = []byte(text)
	case FormatXLSX:
		data, err := s.workbook(rows)
		if err != nil {
			return Export{}, fmt.Errorf("export %s: %w", s.def.Name, err)
		}
		exp.Filename = fmt.Sprintf("%s-%s.xlsx", s.def.Name, stamp)
		exp.ContentType = xlsxContentType
		exp.Data = data
	default:
		return Export{}, fmt.Errorf("%w: unknown export format %q", ErrBadCommand, format)
	}

	s.log.Info("screen_exported", fmt.Sprintf("Exported %d rows as %s", exp.Rows, exp.Filename))
	return exp, nil
}

// workbook writes the header row and one row per item into a single
// sheet named after the screen. Unlike the delimited export an empty
// result still carries the header.
func (s *ListScreen[T, F]) workbook(rows []T) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := s.def.Name
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	cols := s.engine.Config().Columns
	header := make([]interface{}, len(cols))
	for i, c := range cols {
		header[i] = string(c)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, item := range rows {
		values := make([]interface{}, len(cols))
		for j, c := range cols {
			values[j] = item.Field(c)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportScreen opens a fresh screen, narrows it with q and renders it.
// Nothing is kept between calls.
func (r *Registry) ExportScreen(ctx context.Context, name, format string, q Query) (Export, error) {
	screen, err := r.Open(ctx, name)
	if err != nil {
		return Export{}, err
	}
	if q.Search != "" {
		if _, err := screen.Apply(ctx, Command{Type: CmdSearch, Term: q.Search}); err != nil {
			return Export{}, err
		}
	}
	for field, value := range q.Filters {
		if _, err := screen.Apply(ctx, Command{Type: CmdFilter, Field: field, Value: value}); err != nil {
			return Export{}, err
		}
	}
	return screen.Export(format)
}
