package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const minutesPerDay = 24 * 60

var (
	// 14:00, 9:30, 14:00:00
	timeColon = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::\d{2})?$`)
	// 14.00, 09.30
	timeDot = regexp.MustCompile(`^(\d{1,2})\.(\d{2})$`)
)

// TimeOfDay is a wall-clock time without a date or zone.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "14:00", "9:30", "14:00:00" or "14.00".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)

	m := timeColon.FindStringSubmatch(s)
	if m == nil {
		m = timeDot.FindStringSubmatch(s)
	}
	if m == nil {
		return TimeOfDay{}, fmt.Errorf("unrecognized time format %q", s)
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 {
		return TimeOfDay{}, fmt.Errorf("hour %d out of range", hour)
	}
	if minute > 59 {
		return TimeOfDay{}, fmt.Errorf("minute %d out of range", minute)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// MustTime panics on a malformed literal. Intended for tests and constants.
func MustTime(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// TimePtr is MustTime returning a pointer, for optional fields.
func TimePtr(s string) *TimeOfDay {
	t := MustTime(s)
	return &t
}

// String renders HH:MM, 24-hour, zero-padded.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Minutes returns minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// AddMinutes wraps around midnight.
func (t TimeOfDay) AddMinutes(n int) TimeOfDay {
	total := ((t.Minutes()+n)%minutesPerDay + minutesPerDay) % minutesPerDay
	return TimeOfDay{Hour: total / 60, Minute: total % 60}
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("time of day must be a string: %w", err)
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Scan implements sql.Scanner; values are stored as "HH:MM" text.
func (t *TimeOfDay) Scan(value any) error {
	switch v := value.(type) {
	case string:
		parsed, err := ParseTimeOfDay(v)
		if err != nil {
			return err
		}
		*t = parsed
	case []byte:
		parsed, err := ParseTimeOfDay(string(v))
		if err != nil {
			return err
		}
		*t = parsed
	case time.Time:
		*t = TimeOfDay{Hour: v.Hour(), Minute: v.Minute()}
	default:
		return fmt.Errorf("cannot scan %T into TimeOfDay", value)
	}
	return nil
}

// Value implements driver.Valuer.
func (t TimeOfDay) Value() (driver.Value, error) {
	return t.String(), nil
}

// GormDataType keeps the column a short text on every dialect.
func (TimeOfDay) GormDataType() string {
	return "varchar(5)"
}
