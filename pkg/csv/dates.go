package csv

import (
	"strconv"
	"strings"
	"time"

	"github.com/ajitpratap0/csvtable/pkg/errors"
)

// parseDate converts a date or datetime string to milliseconds since the
// Unix epoch, interpreted as a naive UTC timestamp. Accepted shapes:
//
//	31/10/2010          numeric with / or - separators, 1-2 digit parts
//	14 / 07 / 1994      spaces around separators
//	2016-04-30T01:02:03.400   date plus time, T or space separated
//	2007-4-30 1:6:40.000PM    12-hour clock with AM/PM suffix
//
// Component order: a 4-digit leading component is year-first; otherwise a
// component larger than 12 disambiguates, and dayfirst breaks the tie.
// Plain integers are rejected; a date needs at least one separator.
func parseDate(s string, dayfirst bool) (int64, error) {
	s = normalizeDateSpaces(s)
	if s == "" {
		return 0, errors.New(errors.ErrorTypeConversion, "empty date")
	}

	datePart := s
	timePart := ""
	if i := strings.IndexAny(s, "T "); i >= 0 {
		datePart = s[:i]
		timePart = strings.TrimSpace(s[i+1:])
	}

	year, month, day, err := parseDateComponents(datePart, dayfirst)
	if err != nil {
		return 0, err
	}

	var hour, minute, sec, milli int
	if timePart != "" {
		hour, minute, sec, milli, err = parseTimeComponents(timePart)
		if err != nil {
			return 0, err
		}
	}

	t := time.Date(year, time.Month(month), day, hour, minute, sec,
		milli*int(time.Millisecond), time.UTC)
	return t.UnixMilli(), nil
}

// normalizeDateSpaces removes spaces adjacent to date separators so that
// "14 / 07 / 1994" parses like "14/07/1994". Spaces elsewhere are kept;
// one may separate the date from a time-of-day.
func normalizeDateSpaces(s string) string {
	s = strings.TrimSpace(s)
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' {
			prev := byte(0)
			if len(out) > 0 {
				prev = out[len(out)-1]
			}
			j := i
			for j < len(s) && s[j] == ' ' {
				j++
			}
			next := byte(0)
			if j < len(s) {
				next = s[j]
			}
			if prev == '/' || prev == '-' || next == '/' || next == '-' {
				i = j - 1
				continue
			}
		}
		out = append(out, c)
	}
	return string(out)
}

func parseDateComponents(s string, dayfirst bool) (year, month, day int, err error) {
	sep := byte(0)
	for i := 0; i < len(s); i++ {
		if s[i] == '/' || s[i] == '-' {
			sep = s[i]
			break
		}
	}
	if sep == 0 {
		return 0, 0, 0, errors.New(errors.ErrorTypeConversion, "date has no separator")
	}

	parts := strings.Split(s, string(sep))
	if len(parts) != 3 {
		return 0, 0, 0, errors.Newf(errors.ErrorTypeConversion,
			"date has %d components, want 3", len(parts))
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, perr := strconv.Atoi(p)
		if perr != nil || n < 0 {
			return 0, 0, 0, errors.Newf(errors.ErrorTypeConversion,
				"bad date component %q", p)
		}
		nums[i] = n
	}

	switch {
	case len(parts[0]) == 4:
		year, month, day = nums[0], nums[1], nums[2]
	case nums[0] > 12:
		day, month, year = nums[0], nums[1], nums[2]
	case nums[1] > 12:
		month, day, year = nums[0], nums[1], nums[2]
	case dayfirst:
		day, month, year = nums[0], nums[1], nums[2]
	default:
		month, day, year = nums[0], nums[1], nums[2]
	}

	if len(parts[2]) <= 2 && year < 100 {
		if year < 69 {
			year += 2000
		} else {
			year += 1900
		}
	}

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return 0, 0, 0, errors.Newf(errors.ErrorTypeConversion,
			"date out of range: month %d day %d", month, day)
	}
	return year, month, day, nil
}

func parseTimeComponents(s string) (hour, minute, sec, milli int, err error) {
	pm := false
	am := false
	upper := strings.ToUpper(s)
	switch {
	case strings.HasSuffix(upper, "PM"):
		pm = true
		s = strings.TrimSpace(s[:len(s)-2])
	case strings.HasSuffix(upper, "AM"):
		am = true
		s = strings.TrimSpace(s[:len(s)-2])
	}

	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, 0, 0, errors.Newf(errors.ErrorTypeConversion,
			"bad time %q", s)
	}

	hour, err = atoiField(parts[0])
	if err == nil {
		minute, err = atoiField(parts[1])
	}
	if err != nil {
		return 0, 0, 0, 0, err
	}

	if len(parts) == 3 {
		secPart := parts[2]
		if i := strings.IndexByte(secPart, '.'); i >= 0 {
			frac := secPart[i+1:]
			secPart = secPart[:i]
			// fractional seconds carry millisecond precision
			for len(frac) < 3 {
				frac += "0"
			}
			milli, err = atoiField(frac[:3])
			if err != nil {
				return 0, 0, 0, 0, err
			}
		}
		sec, err = atoiField(secPart)
		if err != nil {
			return 0, 0, 0, 0, err
		}
	}

	if pm && hour < 12 {
		hour += 12
	}
	if am && hour == 12 {
		hour = 0
	}

	if hour > 23 || minute > 59 || sec > 60 {
		return 0, 0, 0, 0, errors.Newf(errors.ErrorTypeConversion,
			"time out of range: %d:%d:%d", hour, minute, sec)
	}
	return hour, minute, sec, milli, nil
}

func atoiField(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.Newf(errors.ErrorTypeConversion, "bad time component %q", s)
	}
	return n, nil
}
