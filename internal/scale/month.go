package scale

import "time"

// calendarYear is the synthetic year that month positions are laid out on.
// 1900 is not a leap year, so every run uses the same 365-day axis.
const calendarYear = 1900

// Tick is a labelled axis position in pixels.
type Tick struct {
	Value    float64
	Position float64
	Label    string
}

// MonthScale places months on a one-year time axis. Month m sits at the last
// day of month m-1, so January starts exactly at the top of the range and the
// domain ends on the last day of December.
type MonthScale struct {
	linear Linear
}

// NewMonthScale creates a month scale over [r0, r1].
func NewMonthScale(r0, r1 float64) MonthScale {
	start := monthAnchor(1)
	end := time.Date(calendarYear, 13, 0, 0, 0, 0, 0, time.UTC)
	return MonthScale{linear: NewLinear(seconds(start), seconds(end), r0, r1)}
}

// Map returns the position of month (1-12).
func (m MonthScale) Map(month int) float64 {
	return m.linear.Map(seconds(monthAnchor(month)))
}

// Ticks returns one tick per month at the first day of the month, labelled
// with the full month name.
func (m MonthScale) Ticks() []Tick {
	ticks := make([]Tick, 0, 12)
	for month := time.January; month <= time.December; month++ {
		t := time.Date(calendarYear, month, 1, 0, 0, 0, 0, time.UTC)
		ticks = append(ticks, Tick{
			Value:    float64(month),
			Position: m.linear.Map(seconds(t)),
			Label:    month.String(),
		})
	}
	return ticks
}

// monthAnchor returns day 0 of the given month, which time.Date normalizes
// to the last day of the previous month.
func monthAnchor(month int) time.Time {
	return time.Date(calendarYear, time.Month(month), 0, 0, 0, 0, 0, time.UTC)
}

func seconds(t time.Time) float64 {
	return float64(t.Unix())
}
