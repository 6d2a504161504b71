package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/expense-server/internal/dates"
)

// Window is the number of trailing calendar days a trend series covers.
type Window int

const (
	Window7  Window = 7
	Window14 Window = 14
	Window30 Window = 30
	Window90 Window = 90

	DefaultWindow = Window7
)

// Windows lists the supported windows.
var Windows = []Window{Window7, Window14, Window30, Window90}

func (w Window) Valid() bool {
	switch w {
	case Window7, Window14, Window30, Window90:
		return true
	}
	return false
}

// ParseWindow accepts only the supported window lengths.
func ParseWindow(days int) (Window, error) {
	w := Window(days)
	if !w.Valid() {
		return 0, fmt.Errorf("unsupported window %d: must be one of %v", days, Windows)
	}
	return w, nil
}

// Series is a per-day bucketed trend of expense and income sums.
type Series struct {
	Labels  []string
	Expense []decimal.Decimal
	Income  []decimal.Decimal

	// HasData is false when every bucket in both series is zero; callers render an empty state.
	HasData bool

	Start dates.Day
	End   dates.Day

	// Skipped counts records left out because their date could not be normalized.
	Skipped int
}

// BucketSeries builds one bucket per day over the window ending at the later of today and the
// newest valid record date, so future-dated records extend the range instead of being clipped.
func BucketSeries(records []Transaction, window Window, today dates.Day) Series {
	if !window.Valid() {
		window = DefaultWindow
	}
	days := int(window)

	end := today
	skipped := 0
	for _, r := range records {
		d := r.Day()
		if !d.Valid() {
			skipped++
			continue
		}
		if !end.Valid() || d.After(end) {
			end = d
		}
	}
	// Nothing anchors the window: no valid today and no valid record dates.
	if !end.Valid() {
		end = dates.New(1970, time.January, 1)
	}
	start := end.AddDays(-(days - 1))

	s := Series{
		Labels:  make([]string, days),
		Expense: make([]decimal.Decimal, days),
		Income:  make([]decimal.Decimal, days),
		Start:   start,
		End:     end,
		Skipped: skipped,
	}
	index := make(map[dates.Day]int, days)
	for i := 0; i < days; i++ {
		d := start.AddDays(i)
		index[d] = i
		s.Labels[i] = d.Label()
		s.Expense[i] = decimal.Zero
		s.Income[i] = decimal.Zero
	}

	for _, r := range records {
		d := r.Day()
		if !d.Valid() || d.Before(start) || d.After(end) {
			continue
		}
		i := index[d]
		if r.Kind == KindIncome {
			s.Income[i] = s.Income[i].Add(r.Amount)
		} else {
			s.Expense[i] = s.Expense[i].Add(r.Amount)
		}
	}

	for i := 0; i < days; i++ {
		if !s.Expense[i].IsZero() || !s.Income[i].IsZero() {
			s.HasData = true
			break
		}
	}
	return s
}
