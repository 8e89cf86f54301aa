package models

import (
	"time"

	"schedule-reconciler/internal/domain"
)

// ScheduleBase - плановый график сотрудника на день.
type ScheduleBase struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	EmployeeID uint      `gorm:"not null;uniqueIndex:idx_schedule_base_employee_date" json:"employee_id"`
	Date       time.Time `gorm:"type:date;not null;uniqueIndex:idx_schedule_base_employee_date;index" json:"date"`
	BaseCode   string    `gorm:"type:varchar(2);not null" json:"base_code"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ScheduleBase) TableName() string {
	return "schedule_base"
}

// IsValid проверяет ключ и код плана
func (s *ScheduleBase) IsValid() bool {
	if s.EmployeeID == 0 || s.Date.IsZero() {
		return false
	}
	return domain.StatusCode(s.BaseCode).IsPlanCode()
}

func (s *ScheduleBase) ToDomain() domain.PlanEntry {
	return domain.PlanEntry{
		EmployeeID: s.EmployeeID,
		Date:       domain.DateOf(s.Date),
		Code:       domain.StatusCode(s.BaseCode),
	}
}
