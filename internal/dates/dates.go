// Package dates normalizes the date representations a transaction can arrive with into a
// calendar day used for ordering and bucketing.
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	isoLayout   = "2006-01-02"
	labelLayout = "02 Jan"
)

var (
	isoPattern      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dayFirstPattern = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)
)

// fallbackLayouts are tried in order for anything that is neither YYYY-MM-DD nor DD-MM-YYYY.
var fallbackLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"2 January 2006",
	"Mon Jan 2 2006",
	time.RFC1123,
	time.RFC1123Z,
	time.RFC850,
	time.ANSIC,
	time.UnixDate,
}

// Day is a calendar date without a time component. The zero Day is the invalid sentinel
// returned for input that cannot be parsed.
type Day struct {
	year  int
	month time.Month
	day   int
}

// Invalid is the sentinel for unparseable dates.
var Invalid = Day{}

// New builds a Day from its components. Components that do not form a real calendar date
// (for example February 30th) yield Invalid.
func New(year int, month time.Month, day int) Day {
	if month < time.January || month > time.December || day < 1 || year < 1 {
		return Invalid
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return Invalid
	}
	return Day{year: year, month: month, day: day}
}

// Parse normalizes s into a Day. It never fails: input it cannot understand returns Invalid.
//
// YYYY-MM-DD is read as year-month-day and DD-MM-YYYY as day-month-year. Anything else goes
// through a list of common layouts; timestamps keep the calendar fields as written, with no
// shift into another timezone.
func Parse(s string) Day {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return Invalid
	case isoPattern.MatchString(s):
		return fromParts(s[0:4], s[5:7], s[8:10])
	case dayFirstPattern.MatchString(s):
		return fromParts(s[6:10], s[3:5], s[0:2])
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return New(t.Year(), t.Month(), t.Day())
		}
	}
	return Invalid
}

func fromParts(year, month, day string) Day {
	y, errY := strconv.Atoi(year)
	m, errM := strconv.Atoi(month)
	d, errD := strconv.Atoi(day)
	if errY != nil || errM != nil || errD != nil {
		return Invalid
	}
	return New(y, time.Month(m), d)
}

// FromTime returns the calendar day of t. Stored dates are anchored at UTC midnight, so the UTC
// calendar fields are used. The zero time is Invalid.
func FromTime(t time.Time) Day {
	if t.IsZero() {
		return Invalid
	}
	u := t.UTC()
	return Day{year: u.Year(), month: u.Month(), day: u.Day()}
}

// Today returns the calendar day of now as seen in loc.
func Today(now time.Time, loc *time.Location) Day {
	if loc == nil {
		loc = time.Local
	}
	l := now.In(loc)
	return Day{year: l.Year(), month: l.Month(), day: l.Day()}
}

// Valid reports whether d is a real date rather than the Invalid sentinel.
func (d Day) Valid() bool {
	return d != Invalid
}

func (d Day) Year() int         { return d.year }
func (d Day) Month() time.Month { return d.month }
func (d Day) DayOfMonth() int   { return d.day }

// Time returns midnight of d in loc. Invalid days return the zero time.
func (d Day) Time(loc *time.Location) time.Time {
	if !d.Valid() {
		return time.Time{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, loc)
}

// AddDays moves d by n calendar days. Invalid stays Invalid.
func (d Day) AddDays(n int) Day {
	if !d.Valid() {
		return Invalid
	}
	t := time.Date(d.year, d.month, d.day+n, 0, 0, 0, 0, time.UTC)
	return Day{year: t.Year(), month: t.Month(), day: t.Day()}
}

// Compare returns -1, 0 or +1. Invalid sorts before every valid day.
func (d Day) Compare(other Day) int {
	switch {
	case d.year != other.year:
		return cmpInt(d.year, other.year)
	case d.month != other.month:
		return cmpInt(int(d.month), int(other.month))
	default:
		return cmpInt(d.day, other.day)
	}
}

func (d Day) Before(other Day) bool { return d.Compare(other) < 0 }
func (d Day) After(other Day) bool  { return d.Compare(other) > 0 }

// Label is the chart label for d, e.g. "18 Nov".
func (d Day) Label() string {
	if !d.Valid() {
		return ""
	}
	return d.Time(time.UTC).Format(labelLayout)
}

// String renders d as YYYY-MM-DD, or "invalid".
func (d Day) String() string {
	if !d.Valid() {
		return "invalid"
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.year, int(d.month), d.day)
}

// ISO renders d as YYYY-MM-DD for API payloads; Invalid renders as an empty string.
func (d Day) ISO() string {
	if !d.Valid() {
		return ""
	}
	return d.Time(time.UTC).Format(isoLayout)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
