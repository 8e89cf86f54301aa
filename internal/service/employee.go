package service

import (
	"fmt"
	"strings"

	"schedule-reconciler/internal/domain"
	"schedule-reconciler/internal/logging"
	"schedule-reconciler/internal/models"
	"schedule-reconciler/internal/repository"

	"github.com/sirupsen/logrus"
)

// EmployeeInput - входные данные для создания и частичного обновления.
// nil означает "поле не передано".
type EmployeeInput struct {
	FullName       *string `json:"fio"`
	Team           *string `json:"team"`
	TelegramID     *int64  `json:"tg_user_id"`
	EmploymentMode *string `json:"employee_type"`
	Role           *string `json:"role"`
	IsActive       *bool   `json:"is_active"`
	StartTime      *string `json:"start_time"`
	EndTime        *string `json:"end_time"`
	LunchStart     *string `json:"lunch_start"`
	LunchDuration  *int    `json:"lunch_duration"`
}

type EmployeeService struct {
	repo   repository.EmployeeRepository
	logger *logrus.Logger
}

func NewEmployeeService(repo repository.EmployeeRepository) *EmployeeService {
	return &EmployeeService{repo: repo, logger: logging.New()}
}

// CreateEmployee создает сотрудника; fio и team обязательны
func (s *EmployeeService) CreateEmployee(in EmployeeInput) (*models.Employee, error) {
	if in.FullName == nil || strings.TrimSpace(*in.FullName) == "" {
		return nil, invalid("fio", "обязательное поле")
	}
	if in.Team == nil || strings.TrimSpace(*in.Team) == "" {
		return nil, invalid("team", "обязательное поле")
	}

	lunch := domain.DefaultLunchMinutes
	employee := &models.Employee{
		EmploymentMode: string(domain.ModeOfficeFixed),
		Role:           string(models.RoleUser),
		IsActive:       true,
		LunchDuration:  &lunch,
	}
	if err := applyEmployeeInput(employee, in); err != nil {
		return nil, err
	}

	if err := s.repo.Create(employee); err != nil {
		return nil, mapRepoErr(err)
	}

	s.logger.WithFields(logrus.Fields{
		"id":   employee.ID,
		"mode": employee.EmploymentMode,
	}).Info("Employee registered")

	return employee, nil
}

// UpdateEmployee обновляет только переданные поля
func (s *EmployeeService) UpdateEmployee(id uint, in EmployeeInput) (*models.Employee, error) {
	employee, err := s.GetEmployee(id)
	if err != nil {
		return nil, err
	}

	if err := applyEmployeeInput(employee, in); err != nil {
		return nil, err
	}

	if err := s.repo.Update(employee); err != nil {
		return nil, mapRepoErr(err)
	}

	return employee, nil
}

func (s *EmployeeService) DeleteEmployee(id uint) error {
	return mapRepoErr(s.repo.Delete(id))
}

func (s *EmployeeService) GetEmployee(id uint) (*models.Employee, error) {
	employee, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения сотрудника: %w", err)
	}
	if employee == nil {
		return nil, notFound("employee", id)
	}
	return employee, nil
}

// GetByTelegramID возвращает (nil, nil), если сотрудник не привязан
func (s *EmployeeService) GetByTelegramID(telegramID int64) (*models.Employee, error) {
	return s.repo.GetByTelegramID(telegramID)
}

func (s *EmployeeService) ListEmployees(activeOnly bool) ([]*models.Employee, error) {
	if activeOnly {
		return s.repo.GetActive()
	}
	return s.repo.GetAll()
}

// IsAdmin проверяет роль сотрудника с данным telegram id
func (s *EmployeeService) IsAdmin(telegramID int64) (bool, error) {
	employee, err := s.repo.GetByTelegramID(telegramID)
	if err != nil {
		return false, err
	}
	return employee != nil && employee.IsAdmin(), nil
}

func applyEmployeeInput(e *models.Employee, in EmployeeInput) error {
	if in.FullName != nil {
		name := strings.TrimSpace(*in.FullName)
		if name == "" {
			return invalid("fio", "не может быть пустым")
		}
		e.FullName = name
	}
	if in.Team != nil {
		team := strings.TrimSpace(*in.Team)
		if team == "" {
			return invalid("team", "не может быть пустым")
		}
		e.Team = team
	}
	if in.TelegramID != nil {
		if *in.TelegramID == 0 {
			e.TelegramID = nil
		} else {
			id := *in.TelegramID
			e.TelegramID = &id
		}
	}
	if in.EmploymentMode != nil {
		mode, err := domain.ParseEmploymentMode(*in.EmploymentMode)
		if err != nil {
			return invalid("employee_type", err.Error())
		}
		e.EmploymentMode = string(mode)
	}
	if in.Role != nil {
		role := models.Role(strings.ToLower(strings.TrimSpace(*in.Role)))
		if !role.IsValid() {
			return invalid("role", fmt.Sprintf("неизвестная роль %q", *in.Role))
		}
		e.Role = string(role)
	}
	if in.IsActive != nil {
		e.IsActive = *in.IsActive
	}

	var err error
	if in.StartTime != nil {
		if e.StartTime, err = parseTimeField("start_time", *in.StartTime); err != nil {
			return err
		}
	}
	if in.EndTime != nil {
		if e.EndTime, err = parseTimeField("end_time", *in.EndTime); err != nil {
			return err
		}
	}
	if in.LunchStart != nil {
		if e.LunchStart, err = parseTimeField("lunch_start", *in.LunchStart); err != nil {
			return err
		}
	}
	if in.LunchDuration != nil {
		if *in.LunchDuration < 0 || *in.LunchDuration > 24*60 {
			return invalid("lunch_duration", "ожидается от 0 до 1440 минут")
		}
		d := *in.LunchDuration
		e.LunchDuration = &d
	}

	if e.StartTime != nil && e.EndTime != nil && e.EndTime.Minutes() <= e.StartTime.Minutes() {
		return invalid("end_time", "должно быть позже start_time")
	}

	return nil
}
