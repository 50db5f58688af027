package merge

import (
	"errors"
	"strings"
)

// ErrMissingVariables is the sentinel wrapped by every *MissingVariablesError.
var ErrMissingVariables = errors.New("merge: missing variables")

// MissingVariablesError lists the placeholders of one render call that had no
// value in the supplied variables. Names are unique, in order of first use.
type MissingVariablesError struct {
	Names []string
}

func (e *MissingVariablesError) Error() string {
	quoted := make([]string, len(e.Names))
	for i, name := range e.Names {
		quoted[i] = "'" + name + "'"
	}
	return ErrMissingVariables.Error() + ": " + strings.Join(quoted, ", ")
}

func (e *MissingVariablesError) Unwrap() error {
	return ErrMissingVariables
}
