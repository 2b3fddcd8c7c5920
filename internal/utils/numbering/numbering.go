package numbering

import (
	"fmt"
	"time"
)

// Document kinds, used both as number prefixes and as sequence counter keys.
const (
	KindJournalEntry = "JE"
	KindReceivable   = "INV"
	KindPayable      = "VINV"
	KindPayment      = "PAY"
)

// Format renders a document number as KIND-YYYYMMDD-NNN. The sequence starts
// at 1 per kind and date and is zero-padded to three digits; it widens past
// 999 rather than wrapping.
func Format(kind string, date time.Time, seq int64) string {
	return fmt.Sprintf("%s-%s-%03d", kind, date.Format("20060102"), seq)
}
