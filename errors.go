package mailmerge

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/dmitrymomot/mailmerge/pkg/merge"
)

var (
	// ErrUnresolved is wrapped by *UnresolvedError.
	ErrUnresolved = errors.New("mailmerge: unresolved recipients")

	// ErrArchiveFailed indicates the report could not be uploaded.
	ErrArchiveFailed = errors.New("mailmerge: failed to archive report")
)

// Unresolved describes one recipient whose email cannot be composed.
type Unresolved struct {
	Err     error
	Address string
	Missing []string // missing variable names, empty for other failures
	Row     int      // 1-based data row
}

// UnresolvedError lists every recipient that would fail to render.
type UnresolvedError struct {
	Recipients []Unresolved
}

func (e *UnresolvedError) Error() string {
	parts := make([]string, len(e.Recipients))
	for i, u := range e.Recipients {
		if len(u.Missing) > 0 {
			parts[i] = fmt.Sprintf("row %d (%s): missing %s", u.Row, u.Address, quoteNames(u.Missing))
			continue
		}
		parts[i] = fmt.Sprintf("row %d (%s): %v", u.Row, u.Address, u.Err)
	}
	return fmt.Sprintf("%s: %d of them: %s", ErrUnresolved.Error(), len(e.Recipients), strings.Join(parts, "; "))
}

// Unwrap exposes ErrUnresolved, and merge.ErrMissingVariables when any
// recipient failed on missing variables.
func (e *UnresolvedError) Unwrap() []error {
	errs := []error{ErrUnresolved}
	for _, u := range e.Recipients {
		if len(u.Missing) > 0 {
			return append(errs, merge.ErrMissingVariables)
		}
	}
	return errs
}

// Missing returns the union of missing names across recipients, in order of
// first appearance.
func (e *UnresolvedError) Missing() []string {
	return lo.Uniq(lo.FlatMap(e.Recipients, func(u Unresolved, _ int) []string {
		return u.Missing
	}))
}

func quoteNames(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "'" + n + "'"
	}
	return strings.Join(quoted, ", ")
}

// missingNames extracts the names of a render failure.
func missingNames(err error) []string {
	var missing *merge.MissingVariablesError
	if errors.As(err, &missing) {
		return missing.Names
	}
	return nil
}
