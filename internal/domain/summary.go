package domain

import "github.com/shopspring/decimal"

var sixty = decimal.NewFromInt(60)

// Summary aggregates one employee row of a report.
type Summary struct {
	WorkDays       int
	RemoteDays     int
	NonWorkingDays int
	ByCode         map[StatusCode]int
	ScheduledHours decimal.Decimal
}

// Summarize counts codes and adds up scheduled hours of working days.
// A day contributes end - start - lunch when both ends are known and the
// result is positive; remote halves count the same as office time.
func Summarize(row EmployeeRow) Summary {
	s := Summary{
		ByCode:         make(map[StatusCode]int),
		ScheduledHours: decimal.Zero,
	}

	minutes := int64(0)
	for _, cell := range row.Days {
		s.ByCode[cell.Code]++

		if cell.Code.IsNonWorking() {
			s.NonWorkingDays++
			continue
		}
		s.WorkDays++
		if cell.Code.HasRemote() {
			s.RemoteDays++
		}
		minutes += int64(scheduledMinutes(cell.Schedule))
	}

	s.ScheduledHours = decimal.NewFromInt(minutes).DivRound(sixty, 2)
	return s
}

func scheduledMinutes(sched *DaySchedule) int {
	if sched == nil || sched.Start == nil || sched.End == nil {
		return 0
	}
	span := sched.End.Minutes() - sched.Start.Minutes()
	if sched.LunchStart != nil {
		span -= sched.LunchMinutes
	}
	if span < 0 {
		return 0
	}
	return span
}
