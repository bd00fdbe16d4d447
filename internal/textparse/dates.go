package textparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const isoDate = "2006-01-02"

// DateRange is a deal's validity window as ISO YYYY-MM-DD strings.
type DateRange struct {
	Start  string
	Expiry string
}

// Valid reports whether the range is well ordered. ISO dates compare
// correctly as strings.
func (r DateRange) Valid() bool {
	return r.Start != "" && r.Expiry != "" && r.Start < r.Expiry
}

var (
	slashRangeDashRe = regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{2,4})\s*[-–—]\s*(\d{1,2})/(\d{1,2})/(\d{2,4})`)
	slashRangeWordRe = regexp.MustCompile(`(?i)(\d{1,2})/(\d{1,2})/(\d{2,4})\s*(?:through|thru|to)\s*(\d{1,2})/(\d{1,2})/(\d{2,4})`)
	slashRangeNoYrRe = regexp.MustCompile(`(\d{1,2})/(\d{1,2})\s*[-–—]\s*(\d{1,2})/(\d{1,2})`)
)

// ParseSlashRange reads "M/D/YY - M/D/YY" (dash, en dash or em dash) and,
// when words is true, also "M/D/YY through|thru|to M/D/YY".
func ParseSlashRange(text string, words bool) (DateRange, bool) {
	patterns := []*regexp.Regexp{slashRangeDashRe}
	if words {
		patterns = append(patterns, slashRangeWordRe)
	}
	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		r := DateRange{
			Start:  ISODate(ExpandYear(m[3]), m[1], m[2]),
			Expiry: ISODate(ExpandYear(m[6]), m[4], m[5]),
		}
		if !r.Valid() {
			return DateRange{}, false
		}
		return r, true
	}
	return DateRange{}, false
}

// ParseSlashRangeNoYear reads "M/D - M/D" and infers the year from now.
// Only a December-to-January range spans two years: in January the start
// is last year, otherwise the expiry is next year.
func ParseSlashRangeNoYear(text string, now time.Time) (DateRange, bool) {
	m := slashRangeNoYrRe.FindStringSubmatch(text)
	if m == nil {
		return DateRange{}, false
	}
	startMonth, _ := strconv.Atoi(m[1])
	endMonth, _ := strconv.Atoi(m[3])
	startYear := now.Year()
	endYear := startYear
	if startMonth == 12 && endMonth == 1 {
		if now.Month() == time.January {
			startYear--
		} else {
			endYear++
		}
	}
	r := DateRange{
		Start:  ISODate(strconv.Itoa(startYear), m[1], m[2]),
		Expiry: ISODate(strconv.Itoa(endYear), m[3], m[4]),
	}
	if !r.Valid() {
		return DateRange{}, false
	}
	return r, true
}

// ExpandYear turns a two-digit year into 20YY; other widths pass through.
func ExpandYear(y string) string {
	if len(y) == 2 {
		return "20" + y
	}
	return y
}

// ISODate zero-pads month and day.
func ISODate(year, month, day string) string {
	return fmt.Sprintf("%s-%s-%s", year, pad2(month), pad2(day))
}

func pad2(s string) string {
	if len(s) >= 2 {
		return s
	}
	return strings.Repeat("0", 2-len(s)) + s
}

// WeekWindow returns the seven-day ad week containing now that starts on
// the given weekday.
func WeekWindow(now time.Time, start time.Weekday) DateRange {
	back := (int(now.Weekday()) - int(start) + 7) % 7
	first := now.AddDate(0, 0, -back)
	return DateRange{
		Start:  first.Format(isoDate),
		Expiry: first.AddDate(0, 0, 6).Format(isoDate),
	}
}

// Today is now's calendar date in UTC.
func Today(now time.Time) string {
	return now.UTC().Format(isoDate)
}
