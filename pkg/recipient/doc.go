// Package recipient loads mail-merge recipients from tabular data.
//
// The input is CSV with a header row. One column (by default "email") holds
// the recipient address, which may carry a display name
// ("Ada Lovelace <ada@example.com>"). Every other column becomes a variable
// available to templates:
//
//	email,name,plan
//	ada@example.com,Ada,pro
//	"Grace Hopper <grace@example.com>",Grace,free
//
// Load validates every row and reports all problems at once. If any row is
// invalid the whole load fails with an *InvalidRowsError listing one
// *RowError per bad row, so the source can be fixed in a single pass. A batch
// with silently dropped recipients is never returned.
//
//	batch, err := recipient.LoadFile("people.csv")
//	var invalid *recipient.InvalidRowsError
//	if errors.As(err, &invalid) {
//		for _, row := range invalid.Rows {
//			fmt.Println(row)
//		}
//	}
//
// Recipients are immutable once loaded. Delivery state lives outside them in
// Status cells, one per batch entry, grouped by a Tracker owned by whoever
// sends the batch. A Status flips from undelivered to delivered at most once.
package recipient
