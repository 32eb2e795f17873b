package conversation

import (
	"strconv"
	"strings"
	"time"
)

// DateTimeLayout is the human readable form of the accepted date input.
const DateTimeLayout = "2006 01 02 15:04"

// ParseDateTime parses "YYYY MM DD HH:MM" (four space separated fields, the last
// one holding a colon) in loc. Out-of-range components such as month 13 or
// 24:00 are rejected rather than normalized.
func ParseDateTime(input string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}

	parts := strings.Fields(input)
	if len(parts) != 4 {
		return time.Time{}, ErrInvalidFormat
	}

	clock := strings.Split(parts[3], ":")
	if len(clock) != 2 {
		return time.Time{}, ErrInvalidFormat
	}

	fields := []string{parts[0], parts[1], parts[2], clock[0], clock[1]}
	values := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return time.Time{}, ErrInvalidFormat
		}
		values[i] = n
	}

	year, month, day, hour, minute := values[0], values[1], values[2], values[3], values[4]
	if month < 1 || month > 12 || day < 1 || hour > 23 || minute > 59 {
		return time.Time{}, ErrInvalidFormat
	}

	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, loc)
	if t.Day() != day || int(t.Month()) != month {
		// Feb 30 and friends
		return time.Time{}, ErrInvalidFormat
	}
	return t, nil
}
