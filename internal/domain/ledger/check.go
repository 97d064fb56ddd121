package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Check is a written check as reported by the bookkeeping system
type Check struct {
	TxnID   string          `json:"txn_id"`
	Number  string          `json:"number,omitempty"`
	Payee   string          `json:"payee"`
	Account string          `json:"account,omitempty"`
	Amount  decimal.Decimal `json:"amount"`
	Date    string          `json:"date"`
	Memo    string          `json:"memo,omitempty"`
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate parses the date formats the bookkeeping system emits. A trailing
// "+00:00" offset is dropped, so such values are read as local wall time.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "+00:00"))
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParsedDate returns the check date, ok=false when missing or unparsable
func (c Check) ParsedDate() (time.Time, bool) {
	return ParseDate(c.Date)
}

// CheckDate adapts Check to date-filtered caches
func CheckDate(c Check) (time.Time, bool) {
	return c.ParsedDate()
}
