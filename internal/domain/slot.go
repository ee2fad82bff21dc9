package domain

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

const (
	slotOpenHour     = 6
	weekdayCloseHour = 21
	weekendCloseHour = 18
)

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// GenerateSlots returns the bookable one-hour slots for a calendar date,
// ordered and formatted as "HH:00-HH:00". Weekdays run 06:00-21:00,
// weekends 06:00-18:00. An empty or unparseable date yields nil.
func GenerateSlots(date string) []string {
	if date == "" {
		return nil
	}
	d, err := ParseDate(date)
	if err != nil {
		return nil
	}

	closeHour := weekdayCloseHour
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		closeHour = weekendCloseHour
	}

	slots := make([]string, 0, closeHour-slotOpenHour)
	for hour := slotOpenHour; hour < closeHour; hour++ {
		slots = append(slots, fmt.Sprintf("%02d:00-%02d:00", hour, hour+1))
	}
	return slots
}

// IsSlotBooked reports whether some booking in the given collection occupies
// the (date, slot) pair. It is a pure query over the collection passed in
// and is only as fresh as that collection.
func IsSlotBooked(bookings []Booking, date, slot string) bool {
	for i := range bookings {
		if bookings[i].DateString() == date && bookings[i].Time == slot {
			return true
		}
	}
	return false
}

// RecurringDates expands a start date into the dates of the same weekday
// across consecutive weeks. An unparseable start or weeks < 1 yields nil.
func RecurringDates(start string, weeks int) []string {
	d, err := ParseDate(start)
	if err != nil || weeks < 1 {
		return nil
	}

	out := make([]string, 0, weeks)
	for week := 0; week < weeks; week++ {
		out = append(out, d.AddDate(0, 0, week*7).Format(DateLayout))
	}
	return out
}
