package service

import (
	"fmt"
	"time"

	"schedule-reconciler/internal/domain"
	"schedule-reconciler/internal/logging"
	"schedule-reconciler/internal/models"
	"schedule-reconciler/internal/repository"

	"github.com/sirupsen/logrus"
)

// PlanInput - строка планового графика
type PlanInput struct {
	EmployeeID *uint   `json:"employee_id"`
	Date       *string `json:"date"`
	BaseCode   *string `json:"base_code"`
}

type ScheduleBaseService struct {
	repo      repository.ScheduleBaseRepository
	employees repository.EmployeeRepository
	logger    *logrus.Logger
}

func NewScheduleBaseService(repo repository.ScheduleBaseRepository, employees repository.EmployeeRepository) *ScheduleBaseService {
	return &ScheduleBaseService{repo: repo, employees: employees, logger: logging.New()}
}

func (s *ScheduleBaseService) CreatePlan(in PlanInput) (*models.ScheduleBase, error) {
	if in.EmployeeID == nil || *in.EmployeeID == 0 {
		return nil, invalid("employee_id", "обязательное поле")
	}
	if in.BaseCode == nil {
		return nil, invalid("base_code", "обязательное поле")
	}

	row := &models.ScheduleBase{}
	if err := s.applyPlanInput(row, in); err != nil {
		return nil, err
	}

	if err := s.repo.Create(row); err != nil {
		return nil, mapRepoErr(err)
	}
	return row, nil
}

func (s *ScheduleBaseService) UpdatePlan(id uint, in PlanInput) (*models.ScheduleBase, error) {
	row, err := s.GetPlan(id)
	if err != nil {
		return nil, err
	}
	if err := s.applyPlanInput(row, in); err != nil {
		return nil, err
	}
	if err := s.repo.Update(row); err != nil {
		return nil, mapRepoErr(err)
	}
	return row, nil
}

func (s *ScheduleBaseService) DeletePlan(id uint) error {
	return mapRepoErr(s.repo.Delete(id))
}

func (s *ScheduleBaseService) GetPlan(id uint) (*models.ScheduleBase, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, notFound("plan row", id)
	}
	return row, nil
}

// ListPlans возвращает план сотрудника (employeeID != 0) или весь план
func (s *ScheduleBaseService) ListPlans(employeeID uint) ([]*models.ScheduleBase, error) {
	if employeeID != 0 {
		return s.repo.GetByEmployee(employeeID)
	}
	return s.repo.GetAll()
}

// ImportPlans перезаписывает план строками из внешнего источника
func (s *ScheduleBaseService) ImportPlans(rows []*models.ScheduleBase) error {
	for i, row := range rows {
		if !row.IsValid() {
			return invalid(fmt.Sprintf("rows[%d]", i), "некорректная строка плана")
		}
	}
	return s.repo.Upsert(rows)
}

func (s *ScheduleBaseService) applyPlanInput(row *models.ScheduleBase, in PlanInput) error {
	if in.EmployeeID != nil {
		if err := requireEmployee(s.employees, *in.EmployeeID); err != nil {
			return err
		}
		row.EmployeeID = *in.EmployeeID
	}
	if in.Date != nil || row.Date.IsZero() {
		date, err := parseDateField("date", in.Date)
		if err != nil {
			return err
		}
		row.Date = date
	}
	if in.BaseCode != nil {
		code, err := domain.ParseStatusCode(*in.BaseCode)
		if err != nil {
			return invalid("base_code", err.Error())
		}
		if !code.IsPlanCode() {
			return invalid("base_code", fmt.Sprintf("код %s недопустим в плановом графике", code))
		}
		row.BaseCode = string(code)
	}
	return nil
}

func requireEmployee(repo repository.EmployeeRepository, id uint) error {
	if id == 0 {
		return invalid("employee_id", "обязательное поле")
	}
	employee, err := repo.GetByID(id)
	if err != nil {
		return err
	}
	if employee == nil {
		return invalid("employee_id", fmt.Sprintf("сотрудник %d не найден", id))
	}
	return nil
}

func dateString(t time.Time) string {
	return t.Format("2006-01-02")
}
