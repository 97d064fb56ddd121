package period

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/erp/resolver/internal/domain/shared"
)

// PreviousQuarterLookback is how far back the "previous" quarter is taken from
const PreviousQuarterLookback = 90 * 24 * time.Hour

// Quarter is a calendar quarter
type Quarter struct {
	Year int
	Q    int
}

// QuarterOf returns the quarter containing t
func QuarterOf(t time.Time) Quarter {
	return Quarter{Year: t.Year(), Q: (int(t.Month())-1)/3 + 1}
}

// QuarterKey returns the partition key for t, e.g. "2025_Q3"
func QuarterKey(t time.Time) string {
	return QuarterOf(t).Key()
}

// ParseQuarterKey parses a "YYYY_Qn" key
func ParseQuarterKey(key string) (Quarter, error) {
	yearPart, qPart, ok := strings.Cut(key, "_Q")
	if !ok {
		return Quarter{}, fmt.Errorf("%w: %q", shared.ErrInvalidPartition, key)
	}
	year, err := strconv.Atoi(yearPart)
	if err != nil || year < 1 || len(yearPart) != 4 {
		return Quarter{}, fmt.Errorf("%w: %q", shared.ErrInvalidPartition, key)
	}
	q, err := strconv.Atoi(qPart)
	if err != nil || q < 1 || q > 4 || len(qPart) != 1 {
		return Quarter{}, fmt.Errorf("%w: %q", shared.ErrInvalidPartition, key)
	}
	return Quarter{Year: year, Q: q}, nil
}

// Key returns the partition key
func (q Quarter) Key() string {
	return fmt.Sprintf("%d_Q%d", q.Year, q.Q)
}

// String implements fmt.Stringer
func (q Quarter) String() string {
	return q.Key()
}

// Start returns midnight of the first day of the quarter in loc
func (q Quarter) Start(loc *time.Location) time.Time {
	return time.Date(q.Year, time.Month((q.Q-1)*3+1), 1, 0, 0, 0, 0, loc)
}

// End returns the first instant after the quarter, so the quarter is [Start, End)
func (q Quarter) End(loc *time.Location) time.Time {
	return q.Start(loc).AddDate(0, 3, 0)
}

// LastDay returns midnight of the quarter's final day
func (q Quarter) LastDay(loc *time.Location) time.Time {
	return q.End(loc).AddDate(0, 0, -1)
}

// Contains reports whether t falls in the quarter
func (q Quarter) Contains(t time.Time) bool {
	return QuarterOf(t) == q
}

// Current returns the quarter containing now
func Current(now time.Time) Quarter {
	return QuarterOf(now)
}

// Previous returns the quarter containing now minus 90 days. Early in a
// quarter this is the preceding quarter; late in a long quarter it can be
// the current one.
func Previous(now time.Time) Quarter {
	return QuarterOf(now.Add(-PreviousQuarterLookback))
}

// RecentKeys returns the previous and current quarter keys, oldest first and
// without duplicates.
func RecentKeys(now time.Time) []string {
	prev, cur := Previous(now).Key(), Current(now).Key()
	if prev == cur {
		return []string{cur}
	}
	return []string{prev, cur}
}
