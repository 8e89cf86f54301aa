package repository

import (
	"errors"
	"fmt"
	"time"

	"schedule-reconciler/internal/domain"
	"schedule-reconciler/internal/logging"
	"schedule-reconciler/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ScheduleBaseRepository interface {
	Create(row *models.ScheduleBase) error
	Update(row *models.ScheduleBase) error
	Delete(id uint) error
	GetByID(id uint) (*models.ScheduleBase, error)
	GetByEmployeeAndDate(employeeID uint, date time.Time) (*models.ScheduleBase, error)
	GetByEmployee(employeeID uint) ([]*models.ScheduleBase, error)
	GetAll() ([]*models.ScheduleBase, error)
	GetByPeriod(from, to time.Time) ([]*models.ScheduleBase, error)
	Upsert(rows []*models.ScheduleBase) error
	CreateMissing(rows []*models.ScheduleBase) (int64, error)
}

type GormScheduleBaseRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormScheduleBaseRepository(db *gorm.DB) (*GormScheduleBaseRepository, error) {
	logger := logging.New()

	// Автомиграция
	if err := db.AutoMigrate(&models.ScheduleBase{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate schedule_base table")
		return nil, err
	}

	logger.Debug("Schedule base repository initialized")

	return &GormScheduleBaseRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormScheduleBaseRepository) Create(row *models.ScheduleBase) error {
	row.Date = domain.DateOf(row.Date)

	existing, err := r.GetByEmployeeAndDate(row.EmployeeID, row.Date)
	if err != nil {
		return err
	}
	if existing != nil {
		r.logger.WithFields(logrus.Fields{
			"employee_id": row.EmployeeID,
			"date":        row.Date.Format("2006-01-02"),
		}).Warn("Plan row already exists")
		return fmt.Errorf("plan for employee %d on %s: %w", row.EmployeeID, row.Date.Format("2006-01-02"), ErrDuplicate)
	}

	if err := r.db.Create(row).Error; err != nil {
		r.logger.WithError(err).Error("Failed to create plan row")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"id":          row.ID,
		"employee_id": row.EmployeeID,
		"date":        row.Date.Format("2006-01-02"),
		"code":        row.BaseCode,
	}).Debug("Plan row created")

	return nil
}

func (r *GormScheduleBaseRepository) Update(row *models.ScheduleBase) error {
	row.Date = domain.DateOf(row.Date)

	existing, err := r.GetByEmployeeAndDate(row.EmployeeID, row.Date)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != row.ID {
		return fmt.Errorf("plan for employee %d on %s: %w", row.EmployeeID, row.Date.Format("2006-01-02"), ErrDuplicate)
	}

	result := r.db.Model(&models.ScheduleBase{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"employee_id": row.EmployeeID,
			"date":        row.Date,
			"base_code":   row.BaseCode,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to update plan row")
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}

	return nil
}

func (r *GormScheduleBaseRepository) Delete(id uint) error {
	result := r.db.Delete(&models.ScheduleBase{}, id)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to delete plan row")
		return result.Error
	}
	if result.RowsAffected == 0 {
		r.logger.WithField("id", id).Warn("Plan row not found for deletion")
		return ErrRecordNotFound
	}
	return nil
}

func (r *GormScheduleBaseRepository) GetByID(id uint) (*models.ScheduleBase, error) {
	var row models.ScheduleBase
	result := r.db.First(&row, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get plan row by ID")
		return nil, result.Error
	}

	return &row, nil
}

func (r *GormScheduleBaseRepository) GetByEmployeeAndDate(employeeID uint, date time.Time) (*models.ScheduleBase, error) {
	var row models.ScheduleBase
	result := r.db.Where("employee_id = ? AND date = ?", employeeID, domain.DateOf(date)).First(&row)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}

	return &row, nil
}

func (r *GormScheduleBaseRepository) GetByEmployee(employeeID uint) ([]*models.ScheduleBase, error) {
	var rows []*models.ScheduleBase
	err := r.db.Where("employee_id = ?", employeeID).
		Order("date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *GormScheduleBaseRepository) GetAll() ([]*models.ScheduleBase, error) {
	var rows []*models.ScheduleBase
	err := r.db.Order("date ASC, employee_id ASC").Find(&rows).Error
	return rows, err
}

// GetByPeriod возвращает строки плана с from по to включительно
func (r *GormScheduleBaseRepository) GetByPeriod(from, to time.Time) ([]*models.ScheduleBase, error) {
	var rows []*models.ScheduleBase
	err := r.db.Where("date >= ? AND date <= ?", domain.DateOf(from), domain.DateOf(to)).
		Order("date ASC, employee_id ASC").
		Find(&rows).Error
	if err != nil {
		r.logger.WithError(err).Error("Failed to get plan rows by period")
		return nil, err
	}

	r.logger.WithFields(logrus.Fields{
		"from":  from.Format("2006-01-02"),
		"to":    to.Format("2006-01-02"),
		"count": len(rows),
	}).Debug("Retrieved plan rows")

	return rows, nil
}

// Upsert создает строки плана или перезаписывает код у существующих
func (r *GormScheduleBaseRepository) Upsert(rows []*models.ScheduleBase) error {
	if len(rows) == 0 {
		return nil
	}
	for _, row := range rows {
		row.Date = domain.DateOf(row.Date)
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "employee_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"base_code", "updated_at"}),
	}).Create(&rows).Error
	if err != nil {
		r.logger.WithError(err).Error("Failed to upsert plan rows")
		return err
	}

	r.logger.WithField("count", len(rows)).Info("Plan rows upserted")
	return nil
}

// CreateMissing создает только те строки, для которых еще нет плана
func (r *GormScheduleBaseRepository) CreateMissing(rows []*models.ScheduleBase) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	for _, row := range rows {
		row.Date = domain.DateOf(row.Date)
	}

	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to create plan rows")
		return 0, result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"requested": len(rows),
		"created":   result.RowsAffected,
	}).Info("Missing plan rows created")

	return result.RowsAffected, nil
}
