package checkout

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

var ErrInvalidPayload = errors.New("invalid UPI payload input")

// NewTransactionID returns an opaque, process-unique token. Vendors verify
// payments against it manually, so it only has to be unguessable enough to
// tell concurrent orders apart.
func NewTransactionID() string {
	id, err := uuid.NewV4()
	if err != nil {
		// NewV4 only fails when the system entropy source does.
		return "TXN-" + strings.ToUpper(strings.ReplaceAll(uuid.Must(uuid.NewV1()).String(), "-", "")[:12])
	}
	return "TXN-" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:12])
}

// NewOrderNumber returns a human-readable order number, date-prefixed with
// a random suffix so restarts never collide.
func NewOrderNumber(t time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.Must(uuid.NewV4()).String(), "-", "")[:6])
	return "TFN-" + t.UTC().Format("20060102") + "-" + suffix
}

// BuildUPIPayload assembles the payment URI consumed by UPI scanner apps.
// Field order and key names are an external contract:
//
//	upi://pay?pa=<payee>&pn=<vendor name>&am=<amount>&tn=<note>&cu=INR
//
// The payload is informational only; nothing here verifies that payment
// ever happens.
func BuildUPIPayload(payee, vendorName string, amount decimal.Decimal, txnID string) (string, error) {
	if payee == "" || vendorName == "" || txnID == "" || !amount.IsPositive() {
		return "", ErrInvalidPayload
	}

	var b strings.Builder
	b.WriteString("upi://pay?pa=")
	b.WriteString(payee)
	b.WriteString("&pn=")
	b.WriteString(upiEscape(vendorName))
	b.WriteString("&am=")
	b.WriteString(amount.String())
	b.WriteString("&tn=")
	b.WriteString(upiEscape("Order payment - " + txnID))
	b.WriteString("&cu=INR")
	return b.String(), nil
}

// upiEscape percent-encodes like encodeURIComponent: spaces become %20,
// not '+'.
func upiEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
