package holidays

import "time"

// Calendar flags public holidays for enrichment. Fixed-date holidays cover
// the markets the demo targets; movable feasts are out of scope.
type Calendar struct {
	fixed map[[2]int]struct{}
}

func New() *Calendar {
	fixed := map[[2]int]struct{}{
		{1, 1}:   {}, // New Year's Day
		{5, 1}:   {}, // Labour Day
		{7, 4}:   {}, // Independence Day
		{12, 25}: {}, // Christmas Day
		{12, 26}: {}, // Boxing Day
		{12, 31}: {}, // New Year's Eve
	}
	return &Calendar{fixed: fixed}
}

func (c *Calendar) IsHoliday(day time.Time) bool {
	u := day.UTC()
	_, ok := c.fixed[[2]int{int(u.Month()), u.Day()}]
	return ok
}
