package api

import (
	"time"

	"schedule-reconciler/internal/domain"

	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
}

type GenerateRequest struct {
	Year        int    `json:"year"`
	Month       int    `json:"month"`
	EmployeeIDs []uint `json:"employee_ids"`
}

type GenerateResponse struct {
	Created int64 `json:"created"`
}

type PeriodResponse struct {
	Days int `json:"days"`
}

type SyncResponse struct {
	RunID string `json:"run_id"`
	Path  string `json:"path,omitempty"`
}

type HolidaysResponse struct {
	Loaded int `json:"loaded"`
}

type SummaryDTO struct {
	WorkDays       int                       `json:"work_days"`
	RemoteDays     int                       `json:"remote_days"`
	NonWorkingDays int                       `json:"non_working_days"`
	ByCode         map[domain.StatusCode]int `json:"by_code"`
	ScheduledHours decimal.Decimal           `json:"scheduled_hours"`
}

type ReportRowDTO struct {
	EmployeeID uint                `json:"employee_id"`
	Name       string              `json:"name"`
	Days       map[int]domain.Cell `json:"days"`
	Summary    SummaryDTO          `json:"summary"`
}

// ReportDTO: Cells - отображение имя -> день -> клетка, как в табеле;
// Rows - то же по сотрудникам, с итогами.
type ReportDTO struct {
	Year        int                            `json:"year"`
	Month       int                            `json:"month"`
	DaysInMonth int                            `json:"days_in_month"`
	Cells       map[string]map[int]domain.Cell `json:"cells"`
	Rows        []ReportRowDTO                 `json:"rows"`
}

func toReportDTO(report *domain.Report) ReportDTO {
	rows := make([]ReportRowDTO, 0, len(report.Rows))
	for _, row := range report.Rows {
		s := domain.Summarize(row)
		rows = append(rows, ReportRowDTO{
			EmployeeID: row.EmployeeID,
			Name:       row.Name,
			Days:       row.Days,
			Summary: SummaryDTO{
				WorkDays:       s.WorkDays,
				RemoteDays:     s.RemoteDays,
				NonWorkingDays: s.NonWorkingDays,
				ByCode:         s.ByCode,
				ScheduledHours: s.ScheduledHours,
			},
		})
	}

	return ReportDTO{
		Year:        report.Year,
		Month:       int(report.Month),
		DaysInMonth: report.DaysInMonth(),
		Cells:       report.ByName(),
		Rows:        rows,
	}
}

type DayDTO struct {
	EmployeeID uint        `json:"employee_id"`
	Date       string      `json:"date"`
	Cell       domain.Cell `json:"cell"`
}

func dayDTO(employeeID uint, date time.Time, cell domain.Cell) DayDTO {
	return DayDTO{EmployeeID: employeeID, Date: date.Format("2006-01-02"), Cell: cell}
}
