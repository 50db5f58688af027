package recipient

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptySource indicates the input has no header row.
	ErrEmptySource = errors.New("recipient: empty source")

	// ErrInvalidHeader indicates the header row could not be parsed or names an empty column.
	ErrInvalidHeader = errors.New("recipient: invalid header")

	// ErrMissingAddressColumn indicates the header lacks the address column.
	ErrMissingAddressColumn = errors.New("recipient: address column not found")

	// ErrDuplicateColumn indicates the header names a column more than once.
	ErrDuplicateColumn = errors.New("recipient: duplicate column")

	// ErrInvalidEncoding indicates the input is not valid UTF-8.
	ErrInvalidEncoding = errors.New("recipient: input is not valid UTF-8")

	// ErrInvalidAddress indicates a row's address is empty or malformed.
	ErrInvalidAddress = errors.New("recipient: invalid address")

	// ErrColumnCount indicates a row has a different number of fields than the header.
	ErrColumnCount = errors.New("recipient: wrong number of fields")

	// ErrMalformedRow indicates a row is not valid CSV (e.g. a stray quote).
	ErrMalformedRow = errors.New("recipient: malformed row")

	// ErrInvalidRows is wrapped by every *InvalidRowsError.
	ErrInvalidRows = errors.New("recipient: invalid rows")
)

// RowError describes why one data row failed to parse.
type RowError struct {
	Err    error
	Column string // empty when the failure is not tied to a column
	Row    int    // 1-based data row index, header excluded
	Line   int    // 1-based line in the source
}

func (e *RowError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "row %d", e.Row)
	if e.Line > 0 {
		fmt.Fprintf(&b, " (line %d)", e.Line)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, ": column %q", e.Column)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// InvalidRowsError aggregates the diagnostics of every bad row in a load.
type InvalidRowsError struct {
	Rows []*RowError
}

func (e *InvalidRowsError) Error() string {
	parts := make([]string, len(e.Rows))
	for i, row := range e.Rows {
		parts[i] = row.Error()
	}
	return fmt.Sprintf("recipient: %d invalid rows: %s", len(e.Rows), strings.Join(parts, "; "))
}

// Unwrap exposes ErrInvalidRows and each row error to errors.Is and errors.As.
func (e *InvalidRowsError) Unwrap() []error {
	errs := make([]error, 0, len(e.Rows)+1)
	errs = append(errs, ErrInvalidRows)
	for _, row := range e.Rows {
		errs = append(errs, row)
	}
	return errs
}

// RowIndexes returns the 1-based indexes of the failing rows in source order.
func (e *InvalidRowsError) RowIndexes() []int {
	idx := make([]int, len(e.Rows))
	for i, row := range e.Rows {
		idx[i] = row.Row
	}
	return idx
}
