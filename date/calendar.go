package date

import "time"

// ReportingCutoff returns the last date eligible for closed, month-by-month reporting of year.
//
// A past year is reported in full, up to Dec 31. The running year stops at the end of the
// month preceding today's month: the current month is still open and is reported separately
// as a daily extension (see CurrentWindow).
func ReportingCutoff(year int, today Date) Date {
	if year < today.Year() {
		return New(year, time.December, 31)
	}
	return today.StartOf(Monthly).Add(-1)
}

// LastYearEnd returns Dec 31 of the year preceding year, the anchor of every cumulative series.
func LastYearEnd(year int) Date { return New(year, time.January, 0) }

// MonthEnds returns every month-end date in [from, to], bounds included.
//
// The result is the canonical alignment grid for monthly series. It is gap free and
// empty when no month ends in the range.
func MonthEnds(from, to Date) []Date {
	var grid []Date
	for on := from.EndOf(Monthly); !on.After(to); on = New(on.Year(), on.Month()+2, 0) {
		grid = append(grid, on)
	}
	return grid
}

// Days returns every date in [from, to], bounds included.
func Days(from, to Date) []Date {
	var grid []Date
	for on := from; !on.After(to); on = on.Add(1) {
		grid = append(grid, on)
	}
	return grid
}

// CurrentWindow returns the bounds of the in-progress month: today and the first day of its month.
func CurrentWindow(today Date) (Date, Date) { return today, today.StartOf(Monthly) }

// Align builds a complete series on grid.
//
// Every grid date gets the value from sparse when present, fill otherwise. Dates of sparse
// that are not on the grid are ignored.
func Align[T any](grid []Date, sparse map[Date]T, fill T) *History[T] {
	h := &History[T]{
		days:   make([]Date, 0, len(grid)),
		values: make([]T, 0, len(grid)),
	}
	for _, on := range grid {
		v, ok := sparse[on]
		if !ok {
			v = fill
		}
		h.Append(on, v)
	}
	return h
}
