package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"schedule-reconciler/internal/domain"
)

var weekdayNames = map[time.Weekday]string{
	time.Monday:    "Пн",
	time.Tuesday:   "Вт",
	time.Wednesday: "Ср",
	time.Thursday:  "Чт",
	time.Friday:    "Пт",
	time.Saturday:  "Сб",
	time.Sunday:    "Вс",
}

var monthNames = [...]string{
	"", "Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
	"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь",
}

var codeTitles = map[domain.StatusCode]string{
	domain.CodeWork:           "Работа в офисе",
	domain.CodeDayOff:         "Выходной",
	domain.CodeVacation:       "Отпуск",
	domain.CodeSickLeave:      "Больничный",
	domain.CodeBusinessTrip:   "Командировка",
	domain.CodeStudyLeave:     "Учебный отпуск",
	domain.CodeRemoteFull:     "Удаленная работа",
	domain.CodeOfficeToRemote: "Офис, затем удаленно",
	domain.CodeRemoteToOffice: "Удаленно, затем офис",
}

func codeEmoji(code domain.StatusCode) string {
	switch {
	case code == domain.CodeDayOff:
		return "🏖"
	case code.IsNonWorking():
		return "🚫"
	case code.HasRemote():
		return "🏠"
	default:
		return "🏢"
	}
}

// FormatDay - сообщение со статусом одного дня
func FormatDay(name string, date time.Time, cell domain.Cell) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 %s, %s %s\n\n", name, date.Format("02.01.2006"), weekdayNames[date.Weekday()])
	fmt.Fprintf(&b, "%s %s (%s)", codeEmoji(cell.Code), codeTitles[cell.Code], cell.Code)

	if s := cell.Schedule; s != nil && s.Start != nil && s.End != nil {
		fmt.Fprintf(&b, "\n⏰ %s - %s", s.Start, s.End)
		if s.LunchStart != nil {
			fmt.Fprintf(&b, "\n🍽 Обед: %s - %s", s.LunchStart, s.LunchStart.AddMinutes(s.LunchMinutes))
		}
	}

	if cell.Note != "" {
		fmt.Fprintf(&b, "\n\n📝 %s", cell.Note)
	}
	return b.String()
}

// FormatMonth - табель сотрудника за месяц, по строке на день
func FormatMonth(year int, month time.Month, row domain.EmployeeRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 %s: %s %d\n\n", row.Name, monthNames[month], year)

	days := domain.DaysIn(year, month)
	for d := 1; d <= days; d++ {
		cell, ok := row.Days[d]
		if !ok {
			continue
		}
		date := time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
		line := fmt.Sprintf("%02d %s  %s", d, weekdayNames[date.Weekday()], cell.Code)
		if cell.Note != "" {
			line += " 📝"
		}
		b.WriteString(line + "\n")
	}

	summary := domain.Summarize(row)
	fmt.Fprintf(&b, "\nРабочих дней: %d (удаленно: %d)", summary.WorkDays, summary.RemoteDays)
	fmt.Fprintf(&b, "\nНерабочих дней: %d", summary.NonWorkingDays)
	fmt.Fprintf(&b, "\nЧасов по графику: %s", summary.ScheduledHours.String())
	return b.String()
}

// parseDayArg принимает DD.MM.YYYY, DD.MM или YYYY-MM-DD, пустая строка - сегодня
func parseDayArg(args string, now time.Time) (time.Time, error) {
	args = strings.TrimSpace(args)
	if args == "" {
		return domain.DateOf(now), nil
	}

	if t, err := time.Parse("02.01.2006", args); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", args); err == nil {
		return t, nil
	}
	if t, err := time.Parse("02.01", args); err == nil {
		return time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("неверный формат даты: %s", args)
}

// parseMonthArgs: "" - текущий месяц, "M" - месяц текущего года, "YYYY M" - месяц и год
func parseMonthArgs(args string, now time.Time) (int, time.Month, error) {
	fields := strings.Fields(args)

	year, month := now.Year(), now.Month()
	switch len(fields) {
	case 0:
	case 1:
		m, err := strconv.Atoi(fields[0])
		if err != nil {
			return 0, 0, fmt.Errorf("неверный месяц: %s", fields[0])
		}
		month = time.Month(m)
	case 2:
		y, err := strconv.Atoi(fields[0])
		if err != nil {
			return 0, 0, fmt.Errorf("неверный год: %s", fields[0])
		}
		m, err := strconv.Atoi(fields[1])
		if err != nil {
			return 0, 0, fmt.Errorf("неверный месяц: %s", fields[1])
		}
		year, month = y, time.Month(m)
	default:
		return 0, 0, fmt.Errorf("слишком много аргументов")
	}

	if month < time.January || month > time.December {
		return 0, 0, fmt.Errorf("месяц должен быть от 1 до 12")
	}
	if year < 1 || year > 9999 {
		return 0, 0, fmt.Errorf("неверный год: %d", year)
	}
	return year, month, nil
}
