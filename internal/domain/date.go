package domain

import (
	"fmt"
	"sort"
	"time"
)

const (
	DateColumn = "date"
	DateLayout = "02-01-2006"
)

// FixedZone returns a zone at a whole-hour offset from UTC, e.g. UTC+7.
func FixedZone(offsetHours int) *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", offsetHours), offsetHours*60*60)
}

func FormatDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// SortDatesDesc orders DD-MM-YYYY dates newest first. Unparsable values go last.
func SortDatesDesc(dates []string) {
	sort.SliceStable(dates, func(i, j int) bool {
		ti, erri := ParseDate(dates[i])
		tj, errj := ParseDate(dates[j])
		switch {
		case erri != nil:
			return false
		case errj != nil:
			return true
		default:
			return ti.After(tj)
		}
	})
}
