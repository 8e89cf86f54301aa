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

// AdjustmentInput - ручная правка дня. Пустая строка в поле времени
// или статуса снимает правку.
type AdjustmentInput struct {
	EmployeeID         *uint             `json:"employee_id"`
	Date               *string           `json:"date"`
	StartTimeOverride  *string           `json:"start_time_override"`
	EndTimeOverride    *string           `json:"end_time_override"`
	LunchStartOverride *string           `json:"lunch_start_override"`
	StatusOverride     *string           `json:"status_override"`
	Absences           *[]domain.Absence `json:"absences"`
}

type ScheduleAdjustmentService struct {
	repo      repository.ScheduleAdjustmentRepository
	employees repository.EmployeeRepository
	logger    *logrus.Logger
}

func NewScheduleAdjustmentService(repo repository.ScheduleAdjustmentRepository, employees repository.EmployeeRepository) *ScheduleAdjustmentService {
	return &ScheduleAdjustmentService{repo: repo, employees: employees, logger: logging.New()}
}

func (s *ScheduleAdjustmentService) CreateAdjustment(in AdjustmentInput) (*models.ScheduleAdjustment, error) {
	if in.EmployeeID == nil || *in.EmployeeID == 0 {
		return nil, invalid("employee_id", "обязательное поле")
	}

	adj := &models.ScheduleAdjustment{}
	if err := s.applyAdjustmentInput(adj, in); err != nil {
		return nil, err
	}

	if err := s.repo.Create(adj); err != nil {
		return nil, mapRepoErr(err)
	}

	s.logger.WithFields(logrus.Fields{
		"id":          adj.ID,
		"employee_id": adj.EmployeeID,
		"date":        dateString(adj.Date),
		"status":      adj.StatusOverride,
	}).Info("Adjustment recorded")

	return adj, nil
}

func (s *ScheduleAdjustmentService) UpdateAdjustment(id uint, in AdjustmentInput) (*models.ScheduleAdjustment, error) {
	adj, err := s.GetAdjustment(id)
	if err != nil {
		return nil, err
	}
	if err := s.applyAdjustmentInput(adj, in); err != nil {
		return nil, err
	}
	if err := s.repo.Update(adj); err != nil {
		return nil, mapRepoErr(err)
	}
	return adj, nil
}

func (s *ScheduleAdjustmentService) DeleteAdjustment(id uint) error {
	return mapRepoErr(s.repo.Delete(id))
}

func (s *ScheduleAdjustmentService) GetAdjustment(id uint) (*models.ScheduleAdjustment, error) {
	adj, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if adj == nil {
		return nil, notFound("adjustment", id)
	}
	return adj, nil
}

func (s *ScheduleAdjustmentService) ListAdjustments(employeeID uint) ([]*models.ScheduleAdjustment, error) {
	if employeeID != 0 {
		return s.repo.GetByEmployee(employeeID)
	}
	return s.repo.GetAll()
}

func (s *ScheduleAdjustmentService) applyAdjustmentInput(adj *models.ScheduleAdjustment, in AdjustmentInput) error {
	if in.EmployeeID != nil {
		if err := requireEmployee(s.employees, *in.EmployeeID); err != nil {
			return err
		}
		adj.EmployeeID = *in.EmployeeID
	}
	if in.Date != nil || adj.Date.IsZero() {
		date, err := parseDateField("date", in.Date)
		if err != nil {
			return err
		}
		adj.Date = date
	}

	var err error
	if in.StartTimeOverride != nil {
		if adj.StartTimeOverride, err = parseTimeField("start_time_override", *in.StartTimeOverride); err != nil {
			return err
		}
	}
	if in.EndTimeOverride != nil {
		if adj.EndTimeOverride, err = parseTimeField("end_time_override", *in.EndTimeOverride); err != nil {
			return err
		}
	}
	if in.LunchStartOverride != nil {
		if adj.LunchStartOverride, err = parseTimeField("lunch_start_override", *in.LunchStartOverride); err != nil {
			return err
		}
	}

	if in.StatusOverride != nil {
		raw := strings.TrimSpace(*in.StatusOverride)
		if raw == "" {
			adj.StatusOverride = ""
		} else {
			code, err := domain.ParseStatusCode(raw)
			if err != nil {
				return invalid("status_override", err.Error())
			}
			if _, err := domain.OverrideFromCode(code); err != nil {
				return invalid("status_override", err.Error())
			}
			adj.StatusOverride = string(code)
		}
	}

	if in.Absences != nil {
		absences := make([]domain.Absence, 0, len(*in.Absences))
		for i, a := range *in.Absences {
			if strings.TrimSpace(a.From) == "" && strings.TrimSpace(a.To) == "" && strings.TrimSpace(a.Comment) == "" {
				return invalid(fmt.Sprintf("absences[%d]", i), "пустая запись об отсутствии")
			}
			absences = append(absences, a)
		}
		adj.Absences = absences
	}

	return nil
}
