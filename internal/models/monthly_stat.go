package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyStat - итоги сотрудника за месяц на момент последней выгрузки табеля.
// ФИО хранится копией, чтобы история переживала удаление сотрудника.
type MonthlyStat struct {
	ID             uint            `gorm:"primarykey" json:"id"`
	EmployeeID     uint            `gorm:"not null;uniqueIndex:idx_monthly_stat" json:"employee_id"`
	Year           int             `gorm:"not null;uniqueIndex:idx_monthly_stat" json:"year"`
	Month          int             `gorm:"not null;check:month >= 1 AND month <= 12;uniqueIndex:idx_monthly_stat" json:"month"`
	EmployeeName   string          `gorm:"type:varchar(255);not null" json:"fio"`
	WorkDays       int             `gorm:"not null;default:0" json:"work_days"`
	RemoteDays     int             `gorm:"not null;default:0" json:"remote_days"`
	NonWorkingDays int             `gorm:"not null;default:0" json:"non_working_days"`
	ScheduledHours decimal.Decimal `gorm:"type:decimal(7,2);not null" json:"scheduled_hours"`
	RunID          string          `gorm:"type:varchar(36)" json:"run_id"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (MonthlyStat) TableName() string {
	return "monthly_stats"
}

// IsValid проверяет валидность данных
func (s *MonthlyStat) IsValid() bool {
	if s.EmployeeID == 0 || s.Month < 1 || s.Month > 12 {
		return false
	}
	return s.WorkDays >= 0 && s.RemoteDays >= 0 && s.NonWorkingDays >= 0 && !s.ScheduledHours.IsNegative()
}
