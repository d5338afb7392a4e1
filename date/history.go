package date

import (
	"iter"
	"slices"
	"sort"
)

// History stores a chronological series of values, each associated with a specific date.
// It ensures that dates are unique and the series is always sorted.
//
// The zero value is an empty history ready to use.
type History[T any] struct {
	days   []Date
	values []T
}

// Latest returns the latest date and value in the history.
// If the history is empty, it returns zero value.
func (h *History[T]) Latest() (day Date, value T) {
	last := len(h.days) - 1
	if last < 0 {
		return Date{}, *new(T) // return zero value of T
	}
	return h.days[last], h.values[last]
}

// Len returns the number of items in the history.
func (h *History[T]) Len() int { return len(h.days) }

// Days returns a copy of the sorted dates of the history.
func (h *History[T]) Days() []Date { return slices.Clone(h.days) }

// chronological is a private implementation to make this history chronologically sorted.
type chronological[T any] struct{ *History[T] }

func (s chronological[T]) Less(i, j int) bool { return s.days[i].Before(s.days[j]) }

func (s chronological[T]) Swap(i, j int) {
	s.days[i], s.days[j] = s.days[j], s.days[i]
	s.values[i], s.values[j] = s.values[j], s.values[i]
}

// sort sorts the history in chronological order.
func (h *History[T]) sort() { sort.Sort(chronological[T]{h}) }

// Append adds a point to the history.
//
// Existing value at that date are overwritten.
func (h *History[T]) Append(on Date, q T) *History[T] {
	if n := len(h.days); n == 0 || h.days[n-1].Before(on) {
		// most series are built in chronological order.
		h.days, h.values = append(h.days, on), append(h.values, q)
		return h
	}
	if i := slices.Index(h.days, on); i >= 0 {
		// We choose to replace, because it will give higher priority to the last data
		h.values[i] = q
		return h
	}
	h.days, h.values = append(h.days, on), append(h.values, q)
	h.sort()
	return h
}

// Values returns an iterator over all date/value pairs in the history, in chronological order.
func (h *History[T]) Values() iter.Seq2[Date, T] {
	return func(yield func(Date, T) bool) {
		for i, on := range h.days {
			if !yield(on, h.values[i]) {
				return
			}
		}
	}
}

// Get returns the value at 'day' and true or zero value and false.
func (h *History[T]) Get(day Date) (T, bool) {
	var value T
	i, found := h.search(day)
	if found {
		return h.values[i], true
	}
	return value, false
}

// ValueAsOf returns the value on a given day, or the most recent value before it.
// It returns the value and true if found, otherwise it returns the zero value and false.
func (h *History[T]) ValueAsOf(day Date) (T, bool) {
	i, found := h.search(day)
	if found {
		return h.values[i], true
	}

	// Not found. `i` is the index where `day` would be inserted.
	// The value we want is at `i-1`, which is the last entry before the target date.
	if i == 0 {
		var zero T
		return zero, false // No date on or before the given day.
	}
	return h.values[i-1], true
}

// Between returns a new history restricted to [from, to], bounds included.
func (h *History[T]) Between(from, to Date) *History[T] {
	r := new(History[T])
	for on, v := range h.Values() {
		if on.Before(from) || on.After(to) {
			continue
		}
		r.Append(on, v)
	}
	return r
}

// search finds day in the sorted days using a binary search.
func (h *History[T]) search(day Date) (int, bool) {
	return slices.BinarySearchFunc(h.days, day, func(d, t Date) int { return d.Compare(t) })
}
