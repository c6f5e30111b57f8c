package date

import (
	"fmt"
	"strings"
)

// Period is a calendar period, from the shortest to the longest.
type Period int

const (
	Daily Period = iota
	Weekly
	Monthly
	Quarterly
	Yearly
)

// periods names, in Period order; the second form is the singular one.
var periods = [...][2]string{
	Daily:     {"daily", "day"},
	Weekly:    {"weekly", "week"},
	Monthly:   {"monthly", "month"},
	Quarterly: {"quarterly", "quarter"},
	Yearly:    {"yearly", "year"},
}

func (p Period) String() string {
	if p < Daily || p > Yearly {
		return fmt.Sprintf("Period(%d)", int(p))
	}
	return periods[p][0]
}

// Range returns the Range of the period p containing d.
func (p Period) Range(d Date) Range { return NewRange(d, p) }

// PeriodNames returns the names of the periods not shorter than min.
func PeriodNames(min Period) []string {
	var names []string
	for p := max(min, Daily); p <= Yearly; p++ {
		names = append(names, p.String())
	}
	return names
}

// ParsePeriod parses a period name, case insensitive; singular forms are accepted.
func ParsePeriod(name string) (Period, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for p, forms := range periods {
		if name == forms[0] || name == forms[1] {
			return Period(p), nil
		}
	}
	return Daily, fmt.Errorf("unknown period %q want one of %s", name, strings.Join(PeriodNames(Daily), ", "))
}
