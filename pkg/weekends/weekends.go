package weekends

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// CalendarJSON - формат производственного календаря (xmlcalendar)
type CalendarJSON struct {
	Year        int             `json:"year"`
	Months      []MonthWeekends `json:"months"`
	Transitions []Transition    `json:"transitions"`
	Statistic   Statistic       `json:"statistic"`
}

type MonthWeekends struct {
	Month int    `json:"month"`
	Days  string `json:"days"`
}

type Transition struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type Statistic struct {
	Workdays int     `json:"workdays"`
	Holidays int     `json:"holidays"`
	Hours40  float64 `json:"hours40"`
	Hours36  float64 `json:"hours36"`
	Hours24  float64 `json:"hours24"`
}

// NonWorkingDay - нерабочий день календаря
type NonWorkingDay struct {
	Date  time.Time `json:"date"`
	Year  int       `json:"year"`
	Month int       `json:"month"`
	Day   int       `json:"day"`
}

// Calendar - разобранный календарь за год
type Calendar struct {
	Year      int
	Days      []NonWorkingDay
	Shortened []time.Time
	Statistic Statistic
}

// ParseFile читает календарь из файла
func ParseFile(filePath string) (*Calendar, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open calendar file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse разбирает календарь. В строке дней "+" помечает перенесенный
// выходной, "*" - сокращенный предпраздничный рабочий день.
func Parse(r io.Reader) (*Calendar, error) {
	var raw CalendarJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal calendar: %w", err)
	}
	if raw.Year < 1 {
		return nil, fmt.Errorf("calendar year is missing")
	}

	cal := &Calendar{Year: raw.Year, Statistic: raw.Statistic}
	seen := make(map[time.Time]bool)

	for _, m := range raw.Months {
		if m.Month < 1 || m.Month > 12 {
			return nil, fmt.Errorf("invalid month %d", m.Month)
		}

		for _, token := range strings.Split(m.Days, ",") {
			token = strings.TrimSpace(token)
			if token == "" {
				continue
			}

			shortened := strings.HasSuffix(token, "*")
			token = strings.TrimSuffix(strings.TrimSuffix(token, "*"), "+")

			day, err := strconv.Atoi(token)
			if err != nil {
				return nil, fmt.Errorf("failed to parse day '%s' in month %d: %w", token, m.Month, err)
			}

			date := time.Date(raw.Year, time.Month(m.Month), day, 0, 0, 0, 0, time.UTC)
			if date.Month() != time.Month(m.Month) {
				return nil, fmt.Errorf("day %d does not exist in month %d", day, m.Month)
			}

			if shortened {
				cal.Shortened = append(cal.Shortened, date)
				continue
			}
			if seen[date] {
				continue
			}
			seen[date] = true

			cal.Days = append(cal.Days, NonWorkingDay{
				Date:  date,
				Year:  raw.Year,
				Month: m.Month,
				Day:   day,
			})
		}
	}

	sort.Slice(cal.Days, func(i, j int) bool {
		return cal.Days[i].Date.Before(cal.Days[j].Date)
	})

	return cal, nil
}

// Dates возвращает даты нерабочих дней
func (c *Calendar) Dates() []time.Time {
	dates := make([]time.Time, 0, len(c.Days))
	for _, d := range c.Days {
		dates = append(dates, d.Date)
	}
	return dates
}

// ForMonth возвращает нерабочие дни конкретного месяца
func (c *Calendar) ForMonth(month int) []NonWorkingDay {
	result := []NonWorkingDay{}
	for _, d := range c.Days {
		if d.Month == month {
			result = append(result, d)
		}
	}
	return result
}
