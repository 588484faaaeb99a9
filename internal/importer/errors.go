package importer

import (
	"fmt"
	"strings"
)

// MissingFieldError reports that a required canonical field could not be
// resolved from any recognized header alias. The row is skipped; the batch
// continues.
type MissingFieldError struct {
	RowNumber int // 1-based spreadsheet row, header row included
	Fields    []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("Row %d: missing required fields (%s)", e.RowNumber, strings.Join(e.Fields, ", "))
}

// InvalidAmountError reports that quantity or unit price did not coerce to a
// number, so no fact row can be written for the row.
type InvalidAmountError struct {
	RowNumber int
	Field     string
	Value     string
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("Row %d: %s %q is not a number", e.RowNumber, e.Field, e.Value)
}
