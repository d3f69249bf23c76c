// file: internals/helpers/worktime/worktime.go
package worktime

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	MinutesPerDay = 24 * 60

	// Standard 8h shift; callers pass the configured value to Split.
	DefaultNormalThreshold = 480
)

var ErrInvalidTimeFormat = errors.New("invalid time format")

/* ===============================
   Tod (time of day)
=================================*/

// Tod is a wall-clock time of day without date or zone.
type Tod struct {
	Hour   int
	Minute int
	Second int
}

// Parse accepts "H:MM", "HH:MM" or "HH:MM:SS".
func Parse(s string) (Tod, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return Tod{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	h, err := component(parts[0], 1, 2, 23)
	if err != nil {
		return Tod{}, fmt.Errorf("%w: %q hour %v", ErrInvalidTimeFormat, s, err)
	}
	m, err := component(parts[1], 2, 2, 59)
	if err != nil {
		return Tod{}, fmt.Errorf("%w: %q minute %v", ErrInvalidTimeFormat, s, err)
	}
	sec := 0
	if len(parts) == 3 {
		if sec, err = component(parts[2], 2, 2, 59); err != nil {
			return Tod{}, fmt.Errorf("%w: %q second %v", ErrInvalidTimeFormat, s, err)
		}
	}
	return Tod{Hour: h, Minute: m, Second: sec}, nil
}

func component(p string, minLen, maxLen, max int) (int, error) {
	if len(p) < minLen || len(p) > maxLen {
		return 0, errors.New("has wrong length")
	}
	for _, ch := range p {
		if ch < '0' || ch > '9' {
			return 0, errors.New("is not numeric")
		}
	}
	n, err := strconv.Atoi(p)
	if err != nil {
		return 0, err
	}
	if n > max {
		return 0, errors.New("out of range")
	}
	return n, nil
}

// Minutes since midnight; seconds round to the nearest minute.
func (t Tod) Minutes() int {
	m := t.Hour*60 + t.Minute
	if t.Second >= 30 {
		m++
	}
	return m
}

// String gives the canonical "HH:MM:SS" form that gets persisted.
func (t Tod) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

/* ===============================
   Arithmetic
=================================*/

func ParseTimeOfDay(s string) (int, error) {
	t, err := Parse(s)
	if err != nil {
		return 0, err
	}
	return t.Minutes(), nil
}

// FormatMinutes renders "H:MM:SS"; zero or negative gives "0:00:00".
func FormatMinutes(total int) string {
	if total <= 0 {
		return "0:00:00"
	}
	return fmt.Sprintf("%d:%02d:00", total/60, total%60)
}

// Duration treats an exit earlier than the entry as the next calendar day.
func Duration(entry, exit int) int {
	d := exit - entry
	if d < 0 {
		d += MinutesPerDay
	}
	return d
}

func Split(total, threshold int) (normal, overtime int) {
	if total < 0 {
		total = 0
	}
	if threshold < 0 {
		threshold = 0
	}
	normal = min(total, threshold)
	overtime = max(0, total-threshold)
	return normal, overtime
}

// Hours is the derived triple stored on an attendance record.
type Hours struct {
	Total    int
	Normal   int
	Overtime int
}

// Compute returns zero hours when either side is missing.
func Compute(entry, exit *string, threshold int) (Hours, error) {
	if entry == nil || exit == nil {
		return Hours{}, nil
	}
	in, err := ParseTimeOfDay(*entry)
	if err != nil {
		return Hours{}, err
	}
	out, err := ParseTimeOfDay(*exit)
	if err != nil {
		return Hours{}, err
	}
	total := Duration(in, out)
	normal, overtime := Split(total, threshold)
	return Hours{Total: total, Normal: normal, Overtime: overtime}, nil
}
