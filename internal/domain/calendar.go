package domain

import "time"

// Calendar decides which dates fall back to a day off when nothing else applies.
type Calendar interface {
	IsWeekend(date time.Time) bool
}

// WeekdayCalendar treats Saturday and Sunday as the weekend.
type WeekdayCalendar struct{}

func (WeekdayCalendar) IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

type monthKey struct {
	year  int
	month time.Month
}

// HolidayCalendar follows a production calendar for the months it knows:
// listed dates are days off, every other date of such a month is a working
// day (transferred working Saturdays included). Other months fall back to
// WeekdayCalendar.
type HolidayCalendar struct {
	days   map[dayKey]struct{}
	months map[monthKey]struct{}
}

// NewHolidayCalendar builds a calendar from the non-working dates.
func NewHolidayCalendar(nonWorking []time.Time) *HolidayCalendar {
	c := &HolidayCalendar{
		days:   make(map[dayKey]struct{}, len(nonWorking)),
		months: make(map[monthKey]struct{}),
	}
	for _, d := range nonWorking {
		c.days[keyOf(0, d)] = struct{}{}
		c.months[monthKey{year: d.Year(), month: d.Month()}] = struct{}{}
	}
	return c
}

// Covers reports whether the calendar has data for the month of date.
func (c *HolidayCalendar) Covers(date time.Time) bool {
	_, ok := c.months[monthKey{year: date.Year(), month: date.Month()}]
	return ok
}

func (c *HolidayCalendar) IsWeekend(date time.Time) bool {
	if !c.Covers(date) {
		return WeekdayCalendar{}.IsWeekend(date)
	}
	_, ok := c.days[keyOf(0, date)]
	return ok
}
