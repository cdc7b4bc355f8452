package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	dErrors "idcard/pkg/domain-errors"
)

// YearFormat selects the projection returned by BirthYear.
type YearFormat string

const (
	YearFull     YearFormat = "Y" // 1949
	YearTwoDigit YearFormat = "y" // 49
	YearLeap     YearFormat = "L" // 1 if a leap year, else 0
	YearISOWeek  YearFormat = "o" // ISO 8601 week-numbering year
)

// MonthFormat selects the projection returned by BirthMonth.
type MonthFormat string

const (
	MonthNumeric     MonthFormat = "n" // 1-12
	MonthZeroPadded  MonthFormat = "m" // 01-12
	MonthShortName   MonthFormat = "M" // Jan-Dec
	MonthFullName    MonthFormat = "F" // January-December
	MonthDaysInMonth MonthFormat = "t" // 28-31
)

// DayFormat selects the projection returned by BirthDay.
type DayFormat string

const (
	DayNumeric        DayFormat = "j" // 1-31
	DayZeroPadded     DayFormat = "d" // 01-31
	DayOrdinalSuffix  DayFormat = "S" // st, nd, rd, th
	DayWeekday        DayFormat = "w" // 0 (Sunday) - 6 (Saturday)
	DayISOWeekday     DayFormat = "N" // 1 (Monday) - 7 (Sunday)
	DayShortWeekday   DayFormat = "D" // Mon-Sun
	DayFullWeekday    DayFormat = "l" // Monday-Sunday
	DayOfYearZeroBase DayFormat = "z" // 0-365
)

var (
	yearFormats  = []YearFormat{YearLeap, YearISOWeek, YearFull, YearTwoDigit}
	monthFormats = []MonthFormat{MonthFullName, MonthZeroPadded, MonthShortName, MonthNumeric, MonthDaysInMonth}
	dayFormats   = []DayFormat{DayZeroPadded, DayShortWeekday, DayNumeric, DayFullWeekday, DayISOWeekday, DayOrdinalSuffix, DayWeekday, DayOfYearZeroBase}
)

// BirthDate returns the birth date embedded in the number at UTC midnight.
func (n IdentityNumber) BirthDate() time.Time {
	return n.birthDate
}

// BirthYear formats the birth year.
func (n IdentityNumber) BirthYear(format YearFormat) (string, error) {
	t := n.birthDate
	switch format {
	case YearFull:
		return fmt.Sprintf("%04d", t.Year()), nil
	case YearTwoDigit:
		return fmt.Sprintf("%02d", t.Year()%100), nil
	case YearLeap:
		if isLeap(t.Year()) {
			return "1", nil
		}
		return "0", nil
	case YearISOWeek:
		year, _ := t.ISOWeek()
		return strconv.Itoa(year), nil
	default:
		return "", invalidFormat("year", format, yearFormats)
	}
}

// BirthMonth formats the birth month.
func (n IdentityNumber) BirthMonth(format MonthFormat) (string, error) {
	t := n.birthDate
	switch format {
	case MonthNumeric:
		return strconv.Itoa(int(t.Month())), nil
	case MonthZeroPadded:
		return fmt.Sprintf("%02d", int(t.Month())), nil
	case MonthShortName:
		return t.Month().String()[:3], nil
	case MonthFullName:
		return t.Month().String(), nil
	case MonthDaysInMonth:
		return strconv.Itoa(daysIn(t.Year(), t.Month())), nil
	default:
		return "", invalidFormat("month", format, monthFormats)
	}
}

// BirthDay formats the birth day.
func (n IdentityNumber) BirthDay(format DayFormat) (string, error) {
	t := n.birthDate
	switch format {
	case DayNumeric:
		return strconv.Itoa(t.Day()), nil
	case DayZeroPadded:
		return fmt.Sprintf("%02d", t.Day()), nil
	case DayOrdinalSuffix:
		return ordinalSuffix(t.Day()), nil
	case DayWeekday:
		return strconv.Itoa(int(t.Weekday())), nil
	case DayISOWeekday:
		wd := int(t.Weekday())
		if wd == 0 {
			wd = 7
		}
		return strconv.Itoa(wd), nil
	case DayShortWeekday:
		return t.Weekday().String()[:3], nil
	case DayFullWeekday:
		return t.Weekday().String(), nil
	case DayOfYearZeroBase:
		return strconv.Itoa(t.YearDay() - 1), nil
	default:
		return "", invalidFormat("day", format, dayFormats)
	}
}

// Age returns the number of completed years between the birth date and
// reference. The count increments exactly on the birthday: the reference
// month is compared first and the day only when the months are equal.
// A person born on February 29 turns a year older on March 1 in non-leap
// years. A reference before the birth date yields 0.
func (n IdentityNumber) Age(reference time.Time) int {
	birth := n.birthDate
	years := reference.Year() - birth.Year()
	if reference.Month() < birth.Month() ||
		(reference.Month() == birth.Month() && reference.Day() < birth.Day()) {
		years--
	}
	return max(years, 0)
}

func invalidFormat[T ~string](field string, got T, allowed []T) error {
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	return dErrors.Wrap(ErrInvalidArgument, dErrors.CodeInvalidInput,
		fmt.Sprintf("unsupported %s format %q; allowed values are: %s", field, string(got), strings.Join(names, ", ")))
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func ordinalSuffix(day int) string {
	if day%100 >= 11 && day%100 <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}
