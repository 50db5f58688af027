package recipient

import (
	"iter"
	"maps"
	"net/mail"
	"slices"
)

// DefaultAddressColumn is the header name of the address column unless overridden.
const DefaultAddressColumn = "email"

// Recipient is one parsed data row: a validated address plus the row's
// remaining columns as template variables.
type Recipient struct {
	variables map[string]string
	address   mail.Address
}

// Address returns the parsed address including the optional display name.
func (r Recipient) Address() mail.Address {
	return r.address
}

// Email returns the bare addr-spec, e.g. "ada@example.com".
func (r Recipient) Email() string {
	return r.address.Address
}

// String formats the address for a To header.
func (r Recipient) String() string {
	return r.address.String()
}

// Variables returns a copy of the recipient's template variables.
func (r Recipient) Variables() map[string]string {
	return maps.Clone(r.variables)
}

// Lookup returns the value of one variable.
func (r Recipient) Lookup(name string) (string, bool) {
	v, ok := r.variables[name]
	return v, ok
}

// Batch is the ordered set of recipients of one run. Its membership never
// changes after loading.
type Batch struct {
	addressColumn string
	columns       []string
	recipients    []Recipient
}

// Len returns the number of recipients.
func (b *Batch) Len() int {
	return len(b.recipients)
}

// At returns the i-th recipient in source order.
func (b *Batch) At(i int) Recipient {
	return b.recipients[i]
}

// All iterates recipients in source order.
func (b *Batch) All() iter.Seq2[int, Recipient] {
	return slices.All(b.recipients)
}

// Recipients returns a copy of the recipient list.
func (b *Batch) Recipients() []Recipient {
	return slices.Clone(b.recipients)
}

// AddressColumn returns the header name the addresses were read from.
func (b *Batch) AddressColumn() string {
	return b.addressColumn
}

// Columns returns the variable column names in header order.
func (b *Batch) Columns() []string {
	return slices.Clone(b.columns)
}
