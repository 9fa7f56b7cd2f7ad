package booking

import (
	"time"

	"staybooker/internal/pkg/errs"
)

var ErrInvalidDateRange = errs.New("start date must not be after end date")

// DateLayout is the canonical encoding for booking dates.
const DateLayout = "2006-01-02"

// DateRange is an inclusive range of calendar days. Both bounds are
// normalized to midnight UTC, so equality and ordering ignore the time
// portion and location of the inputs.
type DateRange struct {
	start time.Time
	end   time.Time
}

func NewDateRange(start, end time.Time) (DateRange, error) {
	s := truncateToDay(start)
	e := truncateToDay(end)
	if s.After(e) {
		return DateRange{}, ErrInvalidDateRange
	}
	return DateRange{start: s, end: e}, nil
}

// ParseDateRange builds a range from two ISO dates ("2006-01-02").
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return DateRange{}, errs.Wrap(err, "invalid start date")
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return DateRange{}, errs.Wrap(err, "invalid end date")
	}
	return NewDateRange(s, e)
}

func (r DateRange) Start() time.Time {
	return r.start
}

func (r DateRange) End() time.Time {
	return r.end
}

// Overlaps reports whether two closed ranges share at least one day:
// aStart <= bEnd AND bStart <= aEnd.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.start.After(other.end) && !other.start.After(r.end)
}

func (r DateRange) StartISO() string {
	return r.start.Format(DateLayout)
}

func (r DateRange) EndISO() string {
	return r.end.Format(DateLayout)
}

func (r DateRange) String() string {
	return r.StartISO() + ".." + r.EndISO()
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
