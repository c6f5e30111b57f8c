package date

import (
	"iter"
	"slices"
	"sort"
)

// History stores a chronological series of values, each associated with a specific date.
// It ensures that dates are unique and the series is always sorted.
type History[T any] struct {
	days   []Date
	values []T
}

// NewHistory returns an empty History.
func NewHistory[T any]() *History[T] { return new(History[T]) }

// Latest returns the latest date and value in the history.
// If the history is empty, it returns zero value.
func (h *History[T]) Latest() (day Date, value T) {
	last := len(h.days) - 1
	if last < 0 {
		return Date{}, *new(T) // return zero value of T
	}
	return h.days[last], h.values[last]
}

// First returns the earliest date and value in the history.
func (h *History[T]) First() (day Date, value T) {
	if len(h.days) == 0 {
		return Date{}, *new(T)
	}
	return h.days[0], h.values[0]
}

// Len returns the number of items in the history.
func (h *History[T]) Len() int { return len(h.days) }

// Days returns a copy of the dates in the history, in chronological order.
func (h *History[T]) Days() []Date { return slices.Clone(h.days) }

// chronological is a private implementation to make this history chronologically sorted.
type chronological[T any] struct{ *History[T] }

func (s chronological[T]) Less(i, j int) bool { return s.days[i].Before(s.days[j]) }

func (s chronological[T]) Swap(i, j int) {
	s.days[i], s.days[j] = s.days[j], s.days[i]
	s.values[i], s.values[j] = s.values[j], s.values[i]
}

// sort sorts the history in chronological order.
func (h *History[T]) sort() { sort.Stable(chronological[T]{h}) }

// Append adds a point to the history.
//
// Existing value at that date are overwritten.
func (h *History[T]) Append(on Date, q T) *History[T] {
	if i := slices.Index(h.days, on); i >= 0 {
		// Found a point at that exact same instant.
		// We choose to replace, because it will give higher priority to the last data
		h.values[i] = q
		return h
	}
	h.days, h.values = append(h.days, on), append(h.values, q)
	if n := len(h.days); n > 1 && h.days[n-1].Before(h.days[n-2]) {
		h.sort()
	}
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
	i := slices.Index(h.days, day)
	if i >= 0 {
		return h.values[i], true
	}
	return value, false
}

// ValueAsOf returns the value on a given day, or the most recent value before it.
// It returns the value and true if found, otherwise it returns the zero value and false.
func (h *History[T]) ValueAsOf(day Date) (T, bool) {
	i, found := slices.BinarySearchFunc(h.days, day, Date.Compare)
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

// Map returns a new History with f applied to every value.
func Map[T, U any](h *History[T], f func(T) U) *History[U] {
	m := &History[U]{
		days:   slices.Clone(h.days),
		values: make([]U, len(h.values)),
	}
	for i, v := range h.values {
		m.values[i] = f(v)
	}
	return m
}

// Resample returns a new History with a single point per period, dated on the
// last day of the period, holding the last value observed within it.
//
// Periods without any observation are absent from the result.
func (h *History[T]) Resample(p Period) *History[T] {
	r := new(History[T])
	for i, on := range h.days {
		end := on.EndOf(p)
		if n := len(r.days); n > 0 && r.days[n-1] == end {
			r.values[n-1] = h.values[i]
			continue
		}
		r.days, r.values = append(r.days, end), append(r.values, h.values[i])
	}
	return r
}

// Fill aligns the history on the given chronological days.
//
// Every day takes the most recent value on or before it (forward fill), the
// leading days that precede the first observation take the first filled value,
// or the first observation when no day could be forward filled (backward
// fill). It returns false if some day is left without a value, which only
// happens when the history is empty.
func (h *History[T]) Fill(days []Date) ([]T, bool) {
	values := make([]T, len(days))
	first := -1
	for i, day := range days {
		v, ok := h.ValueAsOf(day)
		if !ok {
			continue
		}
		values[i] = v
		if first < 0 {
			first = i
		}
	}
	if len(days) > 0 && h.Len() == 0 {
		return nil, false
	}
	var lead T
	if first < 0 {
		// every day precedes the first observation.
		first = len(days)
		_, lead = h.First()
	} else {
		lead = values[first]
	}
	for i := 0; i < first; i++ {
		values[i] = lead
	}
	return values, true
}
