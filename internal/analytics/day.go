package analytics

import "time"

// Day is a calendar date. It carries no zone of its own; a Calendar decides
// which date an instant falls on.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

func (d Day) midnightUTC() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n days after d (n may be negative).
func (d Day) AddDays(n int) Day {
	t := d.midnightUTC().AddDate(0, 0, n)
	return Day{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// DaysSince returns the number of calendar days from other to d.
func (d Day) DaysSince(other Day) int {
	return int(d.midnightUTC().Sub(other.midnightUTC()).Hours() / 24)
}

func (d Day) Weekday() time.Weekday {
	return d.midnightUTC().Weekday()
}

func (d Day) String() string {
	return d.midnightUTC().Format("2006-01-02")
}

// Calendar assigns instants to calendar days in one explicit location.
type Calendar struct {
	loc *time.Location
}

// NewCalendar returns a Calendar for loc. A nil loc means UTC.
func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{loc: loc}
}

func (c Calendar) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// DayOf returns the date t falls on in the calendar's location.
func (c Calendar) DayOf(t time.Time) Day {
	local := t.In(c.Location())
	return Day{Year: local.Year(), Month: local.Month(), Day: local.Day()}
}

// DaySet records which days had at least one session.
type DaySet map[Day]struct{}

func (s DaySet) Has(d Day) bool {
	_, ok := s[d]
	return ok
}
