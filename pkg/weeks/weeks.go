// Package weeks derives the lived-weeks threshold and age from a birth date.
package weeks

import (
	"errors"
	"fmt"
	"time"
)

// LifeWeeks is eighty years of weeks.
const LifeWeeks = 4160

// Week is seven 24-hour days. Calendar shifts such as DST are ignored.
const Week = 7 * 24 * time.Hour

// DateLayout is the accepted birth date format.
const DateLayout = "2006-01-02"

// ErrFutureBirth is returned for a birth date after now.
var ErrFutureBirth = errors.New("birth date is in the future")

// Parse reads a YYYY-MM-DD date at local midnight.
func Parse(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse birth date %q: %w", s, err)
	}
	return t, nil
}

// Since returns the whole weeks elapsed from dob to now.
func Since(dob, now time.Time) (int, error) {
	if dob.After(now) {
		return 0, fmt.Errorf("%w: %s", ErrFutureBirth, dob.Format(DateLayout))
	}
	return int(now.Sub(dob) / Week), nil
}

// Age returns completed years at now, counting the birthday itself.
func Age(dob, now time.Time) (int, error) {
	if dob.After(now) {
		return 0, fmt.Errorf("%w: %s", ErrFutureBirth, dob.Format(DateLayout))
	}
	now = now.In(dob.Location())
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age, nil
}

// AgeLine formats the age as the callout's secondary line.
func AgeLine(age int) string {
	return fmt.Sprintf("Age %d", age)
}
