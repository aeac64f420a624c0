package liststate

import "strings"

// HandleExport renders the filtered dataset, not just the current page, as
// delimited text: a header line of Config.Columns followed by one line per
// row. Values containing the delimiter are wrapped in double quotes; quotes
// and newlines inside values are written as is. An empty filtered dataset
// yields an empty string.
func (e *Engine[T, F]) HandleExport() (string, error) {
	if !e.cfg.EnableExport {
		return "", ErrExportDisabled
	}
	rows := e.Filtered()
	if len(rows) == 0 {
		return "", nil
	}

	delim := string(e.cfg.Delimiter)
	var b strings.Builder

	header := make([]string, len(e.cfg.Columns))
	for i, col := range e.cfg.Columns {
		header[i] = string(col)
	}
	b.WriteString(strings.Join(header, delim))

	values := make([]string, len(e.cfg.Columns))
	for _, item := range rows {
		for i, col := range e.cfg.Columns {
			values[i] = quoteField(item.Field(col), delim)
		}
		b.WriteByte('\n')
		b.WriteString(strings.Join(values, delim))
	}
	return b.String(), nil
}

func quoteField(v, delim string) string {
	if strings.Contains(v, delim) {
		return `"` + v + `"`
	}
	return v
}
