package repository

import (
	"errors"

	"schedule-reconciler/internal/logging"
	"schedule-reconciler/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MonthlyStatRepository interface {
	Upsert(stats []*models.MonthlyStat) error
	GetByMonth(year, month int) ([]*models.MonthlyStat, error)
	GetByEmployee(employeeID uint) ([]*models.MonthlyStat, error)
	GetByEmployeeAndMonth(employeeID uint, year, month int) (*models.MonthlyStat, error)
}

type GormMonthlyStatRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormMonthlyStatRepository(db *gorm.DB) (*GormMonthlyStatRepository, error) {
	logger := logging.New()

	if err := db.AutoMigrate(&models.MonthlyStat{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate monthly_stats table")
		return nil, err
	}

	logger.Info("Monthly stat repository initialized")

	return &GormMonthlyStatRepository{
		db:     db,
		logger: logger,
	}, nil
}

// Upsert перезаписывает итоги за месяц по ключу (сотрудник, год, месяц)
func (r *GormMonthlyStatRepository) Upsert(stats []*models.MonthlyStat) error {
	if len(stats) == 0 {
		return nil
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "employee_id"}, {Name: "year"}, {Name: "month"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"employee_name", "work_days", "remote_days", "non_working_days",
			"scheduled_hours", "run_id", "updated_at",
		}),
	}).Create(&stats).Error
	if err != nil {
		r.logger.WithError(err).Error("Failed to upsert monthly stats")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"count": len(stats),
		"year":  stats[0].Year,
		"month": stats[0].Month,
	}).Debug("Monthly stats upserted")
	return nil
}

func (r *GormMonthlyStatRepository) GetByMonth(year, month int) ([]*models.MonthlyStat, error) {
	var stats []*models.MonthlyStat
	err := r.db.Where("year = ? AND month = ?", year, month).
		Order("employee_name ASC").
		Find(&stats).Error
	return stats, err
}

func (r *GormMonthlyStatRepository) GetByEmployee(employeeID uint) ([]*models.MonthlyStat, error) {
	var stats []*models.MonthlyStat
	err := r.db.Where("employee_id = ?", employeeID).
		Order("year DESC, month DESC").
		Find(&stats).Error
	return stats, err
}

func (r *GormMonthlyStatRepository) GetByEmployeeAndMonth(employeeID uint, year, month int) (*models.MonthlyStat, error) {
	var stat models.MonthlyStat
	err := r.db.Where("employee_id = ? AND year = ? AND month = ?", employeeID, year, month).
		First(&stat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stat, nil
}
