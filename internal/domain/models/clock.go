package models

import "time"

// Calendar tells which day it is for date-dependent rules.
type Calendar func() Date

// CalendarIn returns a Calendar reading the system clock in loc (UTC when nil).
func CalendarIn(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return func() Date { return DateOf(time.Now().In(loc)) }
}

// FixedCalendar always answers day.
func FixedCalendar(day Date) Calendar {
	return func() Date { return day }
}

// Today calls c, falling back to the UTC system date when c is nil.
func (c Calendar) Today() Date {
	if c == nil {
		return CalendarIn(nil)()
	}
	return c()
}
