// Package sheet reads uploaded spreadsheets into raw rows and builds the
// export workbook.
package sheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ParseFirstSheet reads the first worksheet into one map per data row, keyed
// by the header cells. Header cells are trimmed (spreadsheet tools love to
// sneak in BOMs and padding); data cells are passed through verbatim so
// downstream name matching stays exact. Rows with no content are dropped.
func ParseFirstSheet(r io.Reader) ([]map[string]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(cells) == 0 {
		return nil, nil
	}

	headers := make([]string, len(cells[0]))
	for i, col := range cells[0] {
		headers[i] = strings.TrimPrefix(strings.TrimSpace(col), "\uFEFF")
	}

	rows := make([]map[string]string, 0, len(cells)-1)
	for _, cellRow := range cells[1:] {
		row := make(map[string]string, len(headers))
		empty := true
		for i, value := range cellRow {
			if i >= len(headers) || headers[i] == "" {
				continue
			}
			if value != "" {
				empty = false
			}
			row[headers[i]] = value
		}
		if empty {
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}
