package contact

import (
	"fmt"
	"time"
)

// DateLayout is the only accepted birthday format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

const birthdayTag = "required,datetime=" + DateLayout

// Birthday is a calendar date parsed from a YYYY-MM-DD string.
// Use NewBirthday to construct.
type Birthday struct {
	field Field[string]
	date  time.Time
}

// NewBirthday parses raw strictly and returns a Birthday holding it.
// Impossible dates such as 2023-02-30 are rejected.
func NewBirthday(raw string) (Birthday, error) {
	var b Birthday
	if err := b.Set(raw); err != nil {
		return Birthday{}, err
	}
	return b, nil
}

// Set replaces the date. On failure b is unchanged.
func (b *Birthday) Set(raw string) error {
	date, err := parseBirthday(raw)
	if err != nil {
		return err
	}
	if err := b.field.Set(raw); err != nil {
		return err
	}
	b.date = date
	return nil
}

func (b Birthday) String() string { return b.field.Get() }

// Date returns the birthday at midnight UTC.
func (b Birthday) Date() time.Time { return b.date }

// DaysUntilNext returns the number of days from today until the next
// occurrence of the birthday's month and day, 0 when it is today.
// Feb 29 birthdays fall on Feb 28 in non-leap years.
func (b Birthday) DaysUntilNext(today time.Time) int {
	y, m, d := today.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	next := anniversary(b.date, y)
	if next.Before(start) {
		next = anniversary(b.date, y+1)
	}
	return int(next.Sub(start).Hours() / 24)
}

// anniversary returns the date's month/day in the given year.
func anniversary(date time.Time, year int) time.Time {
	month, day := date.Month(), date.Day()
	if month == time.February && day == 29 && !isLeap(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func parseBirthday(raw string) (time.Time, error) {
	if err := checkVar(raw, birthdayTag); err != nil {
		return time.Time{}, fmt.Errorf("%w: birthday %q must be a valid YYYY-MM-DD date", ErrValidation, raw)
	}
	date, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: birthday %q: %v", ErrValidation, raw, err)
	}
	return date, nil
}
