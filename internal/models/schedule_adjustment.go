package models

import (
	"fmt"
	"time"

	"schedule-reconciler/internal/domain"
)

// ScheduleAdjustment - ручная правка графика на конкретный день.
// StatusOverride хранит либо статус дня (Б, О, К, У, В), либо формат
// работы (Я, Д, ЯД, ДЯ); пустая строка - правки статуса нет.
type ScheduleAdjustment struct {
	ID                 uint              `gorm:"primarykey" json:"id"`
	EmployeeID         uint              `gorm:"not null;uniqueIndex:idx_schedule_adjustment_employee_date" json:"employee_id"`
	Date               time.Time         `gorm:"type:date;not null;uniqueIndex:idx_schedule_adjustment_employee_date;index" json:"date"`
	StartTimeOverride  *domain.TimeOfDay `json:"start_time_override"`
	EndTimeOverride    *domain.TimeOfDay `json:"end_time_override"`
	LunchStartOverride *domain.TimeOfDay `json:"lunch_start_override"`
	StatusOverride     string            `gorm:"type:varchar(2)" json:"status_override"`
	Absences           []domain.Absence  `gorm:"serializer:json" json:"absences"`
	CreatedAt          time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ScheduleAdjustment) TableName() string {
	return "schedule_adjustments"
}

// IsValid проверяет ключ и значение правки статуса
func (a *ScheduleAdjustment) IsValid() bool {
	if a.EmployeeID == 0 || a.Date.IsZero() {
		return false
	}
	_, err := domain.OverrideFromCode(domain.StatusCode(a.StatusOverride))
	return err == nil
}

// ToDomain возвращает правку для расчета табеля
func (a *ScheduleAdjustment) ToDomain() (domain.Adjustment, error) {
	override, err := domain.OverrideFromCode(domain.StatusCode(a.StatusOverride))
	if err != nil {
		return domain.Adjustment{}, fmt.Errorf("adjustment %d: %w", a.ID, err)
	}
	return domain.Adjustment{
		EmployeeID: a.EmployeeID,
		Date:       domain.DateOf(a.Date),
		StartTime:  a.StartTimeOverride,
		EndTime:    a.EndTimeOverride,
		LunchStart: a.LunchStartOverride,
		Override:   override,
		Absences:   a.Absences,
	}, nil
}
