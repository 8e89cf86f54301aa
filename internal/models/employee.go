package models

import (
	"strings"
	"time"

	"schedule-reconciler/internal/domain"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Employee - справочник сотрудников.
type Employee struct {
	ID             uint              `gorm:"primarykey" json:"id"`
	FullName       string            `gorm:"column:fio;size:255;not null;index" json:"fio"`
	Team           string            `gorm:"size:100;not null" json:"team"`
	TelegramID     *int64            `gorm:"column:tg_user_id;uniqueIndex" json:"tg_user_id"`
	EmploymentMode string            `gorm:"column:employee_type;type:varchar(32);not null" json:"employee_type"`
	Role           string            `gorm:"type:varchar(16);not null" json:"role"`
	IsActive       bool              `gorm:"not null" json:"is_active"`
	StartTime      *domain.TimeOfDay `json:"start_time"`
	EndTime        *domain.TimeOfDay `json:"end_time"`
	LunchStart     *domain.TimeOfDay `json:"lunch_start"`
	LunchDuration  *int              `gorm:"default:60" json:"lunch_duration"`
	CreatedAt      time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Employee) TableName() string {
	return "users"
}

// IsAdmin проверяет, является ли сотрудник администратором
func (e *Employee) IsAdmin() bool {
	return Role(e.Role) == RoleAdmin
}

// IsValid проверяет обязательные поля и перечисления
func (e *Employee) IsValid() bool {
	if strings.TrimSpace(e.FullName) == "" || strings.TrimSpace(e.Team) == "" {
		return false
	}
	if !domain.EmploymentMode(e.EmploymentMode).IsValid() {
		return false
	}
	if !Role(e.Role).IsValid() {
		return false
	}
	if e.LunchDuration != nil && *e.LunchDuration < 0 {
		return false
	}
	return true
}

// ToDomain возвращает профиль для расчета табеля
func (e *Employee) ToDomain() domain.Employee {
	lunch := 0
	if e.LunchDuration != nil {
		lunch = *e.LunchDuration
	}
	return domain.Employee{
		ID:            e.ID,
		Name:          e.FullName,
		Mode:          domain.EmploymentMode(e.EmploymentMode),
		StartTime:     e.StartTime,
		EndTime:       e.EndTime,
		LunchStart:    e.LunchStart,
		LunchDuration: lunch,
		Active:        e.IsActive,
	}
}
