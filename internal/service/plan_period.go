package service

import (
	"fmt"

	"schedule-reconciler/internal/domain"
	"schedule-reconciler/internal/models"

	"github.com/sirupsen/logrus"
)

const maxPeriodDays = 366

// PeriodInput - отсутствие на несколько дней подряд: отпуск, больничный,
// командировка или отгулы. Код записывается в план на каждый день периода
type PeriodInput struct {
	EmployeeID *uint   `json:"employee_id"`
	From       *string `json:"from"`
	To         *string `json:"to"`
	Code       *string `json:"code"`
}

// SetPeriod перезаписывает план сотрудника кодом отсутствия с From по To
// включительно и возвращает число дней
func (s *ScheduleBaseService) SetPeriod(in PeriodInput) (int, error) {
	if in.EmployeeID == nil {
		return 0, invalid("employee_id", "обязательное поле")
	}
	if err := requireEmployee(s.employees, *in.EmployeeID); err != nil {
		return 0, err
	}

	from, err := parseDateField("from", in.From)
	if err != nil {
		return 0, err
	}
	to, err := parseDateField("to", in.To)
	if err != nil {
		return 0, err
	}
	if to.Before(from) {
		return 0, invalid("to", "дата окончания раньше даты начала")
	}

	if in.Code == nil {
		return 0, invalid("code", "обязательное поле")
	}
	code, err := domain.ParseStatusCode(*in.Code)
	if err != nil {
		return 0, invalid("code", err.Error())
	}
	if !code.IsNonWorking() {
		return 0, invalid("code", fmt.Sprintf("код %s не является отсутствием", code))
	}

	var rows []*models.ScheduleBase
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if len(rows) == maxPeriodDays {
			return 0, invalid("to", fmt.Sprintf("период длиннее %d дней", maxPeriodDays))
		}
		rows = append(rows, &models.ScheduleBase{EmployeeID: *in.EmployeeID, Date: d, BaseCode: string(code)})
	}

	if err := s.repo.Upsert(rows); err != nil {
		return 0, err
	}

	s.logger.WithFields(logrus.Fields{
		"employee_id": *in.EmployeeID,
		"from":        dateString(from),
		"to":          dateString(to),
		"code":        code,
	}).Info("Absence period stored")

	return len(rows), nil
}
