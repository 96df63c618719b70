// Package normalize converts raw bank-export cell values into the
// canonical representations stored on a transaction.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Date format constants for the layouts seen across bank exports.
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutISOSlash = "2006/01/02"
	DateLayoutUS       = "01/02/2006"
	DateLayoutEuropean = "02.01.2006"
	DateLayoutFull     = "2006-01-02 15:04:05"
)

// dateFormats is tried in order. US month-first comes before the
// day-first variants so unambiguous US exports win, matching the
// slash-separated convention of the files that use it.
var dateFormats = []string{
	DateLayoutISO,
	DateLayoutISOSlash,
	DateLayoutUS,
	"01-02-2006",
	DateLayoutEuropean,
	"02/01/2006",
	"02-01-2006",
	DateLayoutFull,
	"2006-01-02T15:04:05",
	"2-Jan-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"20060102",
}

const (
	minYear = 1990
	maxYear = 2030
)

// excelEpoch is day zero of the 1900 date system. Serial 1 is
// 1899-12-31 plus one day; the off-by-two accounts for the fictitious
// 1900-02-29 that spreadsheet serials carry.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

var (
	serialPattern    = regexp.MustCompile(`^\d{4,6}$`)
	dayFirstPattern  = regexp.MustCompile(`^(\d{1,2})[./-](\d{1,2})[./-](\d{2,4})$`)
	multiSpacePattern = regexp.MustCompile(`\s+`)
)

// ParseDate parses a raw date cell into a UTC midnight time. Named
// layouts are tried first, then spreadsheet serial numbers, then a
// permissive day-first split. Dates outside the plausible year range
// are rejected.
func ParseDate(raw string) (time.Time, error) {
	cleaned := multiSpacePattern.ReplaceAllString(strings.TrimSpace(raw), " ")
	if cleaned == "" {
		return time.Time{}, fmt.Errorf("empty date value")
	}

	for _, format := range dateFormats {
		if t, err := time.Parse(format, cleaned); err == nil {
			return validateYear(toMidnight(t), raw)
		}
	}

	if t, ok := parseExcelSerial(cleaned); ok {
		return validateYear(t, raw)
	}

	if t, ok := parseDayFirst(cleaned); ok {
		return validateYear(t, raw)
	}

	return time.Time{}, fmt.Errorf("unable to parse date %q", raw)
}

// parseExcelSerial interprets a bare integer as a 1900-epoch
// spreadsheet day serial.
func parseExcelSerial(s string) (time.Time, bool) {
	if !serialPattern.MatchString(s) {
		return time.Time{}, false
	}
	serial, err := strconv.Atoi(s)
	if err != nil {
		return time.Time{}, false
	}
	t := excelEpoch.AddDate(0, 0, serial)
	if t.Year() < minYear || t.Year() > maxYear {
		return time.Time{}, false
	}
	return t, true
}

// parseDayFirst is the last-resort split for numeric dates no named
// layout accepted, treating the first component as the day.
func parseDayFirst(s string) (time.Time, bool) {
	m := dayFirstPattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if year < 100 {
		year += 2000
	}

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return t, true
}

func toMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func validateYear(t time.Time, raw string) (time.Time, error) {
	if t.Year() < minYear || t.Year() > maxYear {
		return time.Time{}, fmt.Errorf("date %q outside supported range", raw)
	}
	return t, nil
}

// ToISODate formats a time as YYYY-MM-DD.
func ToISODate(t time.Time) string {
	return t.Format(DateLayoutISO)
}
