package pricing

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gearbook-backend/internal/domain"
)

// Date is a calendar date with no time-of-day component. All bookings
// live in a single canonical timezone (UTC), so two Dates compare by
// field values alone.
type Date struct {
	Year  int
	Month int
	Day   int
}

const dateLayout = "2006-01-02"

// ParseDate converts a yyyy-mm-dd formatted string into a Date.
func ParseDate(dateStr string) (Date, error) {
	parts := strings.Split(dateStr, "-")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("invalid date format, expected yyyy-mm-dd")
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Date{}, fmt.Errorf("invalid year: %v", err)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return Date{}, fmt.Errorf("invalid month: %v", err)
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return Date{}, fmt.Errorf("invalid day: %v", err)
	}

	if month < 1 || month > 12 {
		return Date{}, fmt.Errorf("month must be between 1 and 12")
	}
	if day < 1 || day > DaysInMonth(year, month) {
		return Date{}, fmt.Errorf("day %d is out of range for %04d-%02d", day, year, month)
	}

	return Date{Year: year, Month: month, Day: day}, nil
}

// DaysInMonth returns the number of days in a given month
func DaysInMonth(year, month int) int {
	if month == 2 {
		// Check for leap year
		if (year%4 == 0 && year%100 != 0) || (year%400 == 0) {
			return 29
		}
		return 28
	}

	// Months with 30 days: April, June, September, November
	if month == 4 || month == 6 || month == 9 || month == 11 {
		return 30
	}
	return 31
}

// DateOf truncates t to its UTC calendar date.
func DateOf(t time.Time) Date {
	u := t.UTC()
	return Date{Year: u.Year(), Month: int(u.Month()), Day: u.Day()}
}

func (d Date) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	return d.Time().Format(dateLayout)
}

func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

func (d Date) After(o Date) bool {
	return o.Before(d)
}

func (d Date) Equal(o Date) bool {
	return d == o
}

func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// DaysInclusive counts the days in [start, end] with both ends included,
// so start == end is a 1-day rental.
func DaysInclusive(start, end Date) int {
	return int(end.Time().Sub(start.Time()).Hours()/24) + 1
}

// ValidateRange rejects reversed ranges and start dates in the past.
// today comes from the caller's clock so expiry logic stays testable.
func ValidateRange(startStr, endStr string, today Date) (Date, Date, error) {
	start, err := ParseDate(startStr)
	if err != nil {
		return Date{}, Date{}, &domain.DateRangeError{Start: startStr, End: endStr, Reason: err.Error()}
	}
	end, err := ParseDate(endStr)
	if err != nil {
		return Date{}, Date{}, &domain.DateRangeError{Start: startStr, End: endStr, Reason: err.Error()}
	}
	if end.Before(start) {
		return Date{}, Date{}, &domain.DateRangeError{Start: startStr, End: endStr, Reason: "end date precedes start date"}
	}
	if start.Before(today) {
		return Date{}, Date{}, &domain.DateRangeError{Start: startStr, End: endStr, Reason: "start date is in the past"}
	}
	return start, end, nil
}
