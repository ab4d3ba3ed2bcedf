package sales

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const invoicePrefix = "INV"

// GenerateInvoiceNumber builds a human-readable invoice token from a
// timestamp and a short opaque suffix, e.g. INV-20260901143025-A3F19C.
// Uniqueness is backed by the database constraint on sales.invoice_number;
// callers must treat a duplicate-key failure as a signal to regenerate.
func GenerateInvoiceNumber(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return fmt.Sprintf("%s-%s-%s", invoicePrefix, at.Format("20060102150405"), suffix)
}
