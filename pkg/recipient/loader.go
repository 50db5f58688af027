package recipient

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"os"
	"strings"
	"unicode/utf8"

	emailverifier "github.com/AfterShip/email-verifier"
	"github.com/samber/lo"
)

const utf8BOM = "\ufeff"

// Option configures a Loader.
type Option func(*Loader)

// WithAddressColumn sets the header name of the address column.
// Default: "email"
func WithAddressColumn(name string) Option {
	return func(l *Loader) {
		if name = strings.TrimSpace(name); name != "" {
			l.addressColumn = name
		}
	}
}

// WithComma sets the field delimiter, e.g. ';' or '\t'.
// Default: ','
func WithComma(r rune) Option {
	return func(l *Loader) {
		if r != 0 {
			l.comma = r
		}
	}
}

// WithVerifier replaces the address syntax verifier.
func WithVerifier(v *emailverifier.Verifier) Option {
	return func(l *Loader) {
		if v != nil {
			l.verifier = v
		}
	}
}

// Loader parses recipient tables. It is safe to reuse across loads.
type Loader struct {
	verifier      *emailverifier.Verifier
	addressColumn string
	comma         rune
}

// NewLoader creates a Loader with the given options.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		addressColumn: DefaultAddressColumn,
		comma:         ',',
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.verifier == nil {
		l.verifier = newVerifier()
	}
	return l
}

// newVerifier returns a verifier restricted to offline syntax checks.
func newVerifier() *emailverifier.Verifier {
	v := emailverifier.NewVerifier()
	v.DisableSMTPCheck()
	v.DisableGravatarCheck()
	v.DisableDomainSuggest()
	v.DisableAutoUpdateDisposable()
	return v
}

// Load parses r with a Loader built from opts.
func Load(r io.Reader, opts ...Option) (*Batch, error) {
	return NewLoader(opts...).Load(r)
}

// LoadFile opens path and parses it with a Loader built from opts.
func LoadFile(path string, opts ...Option) (*Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return NewLoader(opts...).Load(f)
}

// Load reads the header and every data row from r.
//
// Row-level problems are collected and returned together as an
// *InvalidRowsError once the whole input has been read. Header problems are
// returned immediately, and read errors from r are returned unchanged.
func (l *Loader) Load(r io.Reader) (*Batch, error) {
	cr := csv.NewReader(r)
	cr.Comma = l.comma
	cr.FieldsPerRecord = 0 // pinned to the header width by the first Read

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptySource
	}
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidHeader, perr)
		}
		return nil, err
	}

	columns, addrIdx, err := l.parseHeader(header)
	if err != nil {
		return nil, err
	}

	batch := &Batch{
		addressColumn: l.addressColumn,
		columns:       lo.Without(columns, l.addressColumn),
	}
	var rowErrs []*RowError

	for row := 1; ; row++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return nil, err
			}
			rowErrs = append(rowErrs, &RowError{Row: row, Line: perr.StartLine, Err: rowCause(perr, len(columns))})
			continue
		}

		line, _ := cr.FieldPos(0)
		if !validUTF8(record) {
			return nil, fmt.Errorf("%w: line %d", ErrInvalidEncoding, line)
		}

		rcpt, err := l.parseRow(columns, addrIdx, record)
		if err != nil {
			rowErrs = append(rowErrs, &RowError{Row: row, Line: line, Column: l.addressColumn, Err: err})
			continue
		}
		batch.recipients = append(batch.recipients, rcpt)
	}

	if len(rowErrs) > 0 {
		return nil, &InvalidRowsError{Rows: rowErrs}
	}
	return batch, nil
}

// parseHeader normalizes column names and locates the address column.
func (l *Loader) parseHeader(header []string) ([]string, int, error) {
	if !validUTF8(header) {
		return nil, 0, fmt.Errorf("%w: line 1", ErrInvalidEncoding)
	}

	columns := make([]string, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, 0, fmt.Errorf("%w: column %d has no name", ErrInvalidHeader, i+1)
		}
		columns[i] = name
	}

	if dups := lo.FindDuplicates(columns); len(dups) > 0 {
		return nil, 0, fmt.Errorf("%w: %s", ErrDuplicateColumn, strings.Join(dups, ", "))
	}

	addrIdx := lo.IndexOf(columns, l.addressColumn)
	if addrIdx < 0 {
		return nil, 0, fmt.Errorf("%w: %q", ErrMissingAddressColumn, l.addressColumn)
	}
	return columns, addrIdx, nil
}

// parseRow builds a Recipient from a record whose width matches the header.
func (l *Loader) parseRow(columns []string, addrIdx int, record []string) (Recipient, error) {
	addr, err := l.parseAddress(record[addrIdx])
	if err != nil {
		return Recipient{}, err
	}

	vars := make(map[string]string, len(columns)-1)
	for i, name := range columns {
		if i == addrIdx {
			continue
		}
		vars[name] = record[i]
	}
	return Recipient{address: *addr, variables: vars}, nil
}

func (l *Loader) parseAddress(raw string) (*mail.Address, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidAddress)
	}

	addr, err := mail.ParseAddress(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidAddress, raw, err)
	}
	if syntax := l.verifier.ParseAddress(addr.Address); !syntax.Valid {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, addr.Address)
	}
	return addr, nil
}

// rowCause maps a csv parse failure to the loader's sentinel errors.
func rowCause(perr *csv.ParseError, want int) error {
	if errors.Is(perr.Err, csv.ErrFieldCount) {
		return fmt.Errorf("%w: want %d", ErrColumnCount, want)
	}
	return fmt.Errorf("%w: %v", ErrMalformedRow, perr.Err)
}

func validUTF8(fields []string) bool {
	for _, f := range fields {
		if !utf8.ValidString(f) {
			return false
		}
	}
	return true
}
