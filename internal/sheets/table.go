package sheets

import "strings"

// Table is the normalized form of a worksheet: an ordered header list and
// one map per data row keyed by header. Every row carries exactly the header
// key set; cells missing from ragged source rows are filled with "".
// A Table is built once per load and treated as read-only afterwards.
type Table struct {
	Headers []string            `json:"headers"`
	Rows    []map[string]string `json:"data"`
}

// BuildTable converts a raw cell grid into a Table. The first row is the
// header row; subsequent rows become header-keyed maps. Returns
// ErrEmptySheet for a grid with no rows and ErrInvalidHeader when any
// header cell is empty or whitespace-only.
func BuildTable(grid [][]string) (*Table, error) {
	if len(grid) == 0 {
		return nil, ErrEmptySheet
	}

	headers := grid[0]
	for _, h := range headers {
		if strings.TrimSpace(h) == "" {
			return nil, ErrInvalidHeader
		}
	}

	rows := make([]map[string]string, 0, len(grid)-1)
	for _, cells := range grid[1:] {
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(cells) {
				row[h] = cells[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}

	return &Table{Headers: headers, Rows: rows}, nil
}

// EmailHeader returns the first header (in header order) whose lowercased
// name equals or contains "email", and whether one was found. The first
// match wins when several columns qualify.
func (t *Table) EmailHeader() (string, bool) {
	for _, h := range t.Headers {
		if strings.Contains(strings.ToLower(h), "email") {
			return h, true
		}
	}
	return "", false
}

// Empty reports whether the table has no data rows.
func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}
