package service

import (
	"strconv"

	"github.com/GeoKM/kmatt-invoice/internal/domain"
)

// sequenceSeed is the value a customer code's counter starts at. The
// first invoice issued for a code is therefore numbered <code>76.
const sequenceSeed = 75

// NextInvoiceNumber issues the next invoice number for a customer
// code: the code followed by the incremented sequence suffix, in
// decimal without padding (e.g. "AC76"). Codes that have never been
// seen are seeded at sequenceSeed first.
//
// The counter is advanced in place, so this must be called exactly
// once per created invoice, inside the store update that inserts it.
func NextInvoiceNumber(agg *domain.Aggregate, code string) string {
	n, ok := agg.LastInvoiceNums[code]
	if !ok {
		n = sequenceSeed
	}
	n++
	agg.LastInvoiceNums[code] = n
	return code + strconv.Itoa(n)
}
