// Package daterange turns "from"/"to" query strings into whole-day bounds.
package daterange

import (
	"errors"
	"strings"
	"time"

	"github.com/jinzhu/now"
)

// ErrInvalidRange is returned when a bound does not parse or from is after to.
var ErrInvalidRange = errors.New("invalid date range")

// Range is an inclusive time window. A nil bound is open.
type Range struct {
	From *time.Time
	To   *time.Time
}

// Parse reads dates such as "2024-03-01" in loc. from snaps to the start of
// its day and to snaps to the end of its day, so a single day can be
// selected with from == to.
func Parse(from, to string, loc *time.Location) (Range, error) {
	var r Range
	if loc == nil {
		loc = time.Local
	}

	if from = strings.TrimSpace(from); from != "" {
		t, err := now.ParseInLocation(loc, from)
		if err != nil {
			return Range{}, ErrInvalidRange
		}
		start := now.With(t).BeginningOfDay()
		r.From = &start
	}

	if to = strings.TrimSpace(to); to != "" {
		t, err := now.ParseInLocation(loc, to)
		if err != nil {
			return Range{}, ErrInvalidRange
		}
		end := now.With(t).EndOfDay()
		r.To = &end
	}

	if r.From != nil && r.To != nil && r.From.After(*r.To) {
		return Range{}, ErrInvalidRange
	}
	return r, nil
}
