package sequence

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/profman23/fluffnwoof-sub005/internal/domain/shared"
)

// Code prefixes. The formats below are part of the external contract and
// must stay bit-exact: existing records and downstream imports depend on
// them.
const (
	OwnerCodePrefix     = "C"
	PatientCodePrefix   = "P"
	InvoiceNumberPrefix = "INV"
)

// OwnerCode formats a sequence value as an owner (customer) code: C00000042.
func OwnerCode(n int64) string {
	return fmt.Sprintf("%s%08d", OwnerCodePrefix, n)
}

// PatientCode formats a sequence value as a patient (pet) code: P00000042.
func PatientCode(n int64) string {
	return fmt.Sprintf("%s%08d", PatientCodePrefix, n)
}

// InvoiceNumber formats a sequence value as an invoice number for the given
// issue date: INV-20250614-0042.
func InvoiceNumber(issuedAt time.Time, n int64) string {
	return fmt.Sprintf("%s-%s-%04d", InvoiceNumberPrefix, issuedAt.Format("20060102"), n)
}

// InvoiceCounterKey returns the day-scoped counter key for invoice numbers,
// e.g. "invoice_20250614". Scoping the key to the calendar day makes each
// day's invoice sequence restart at 1 independent of prior days.
func InvoiceCounterKey(issuedAt time.Time) string {
	return "invoice_" + issuedAt.Format("20060102")
}

// ParseCodeSuffix extracts the numeric suffix of a previously assigned code,
// e.g. "C00000041" -> 41. Used only by the degraded fallback path that
// derives the next code from the most recent assigned one.
func ParseCodeSuffix(code, prefix string) (int64, error) {
	if !strings.HasPrefix(code, prefix) {
		return 0, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("code %q does not carry prefix %q", code, prefix))
	}
	n, err := strconv.ParseInt(code[len(prefix):], 10, 64)
	if err != nil || n <= 0 {
		return 0, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("code %q has no numeric suffix", code))
	}
	return n, nil
}
