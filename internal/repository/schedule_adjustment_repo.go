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
)

type ScheduleAdjustmentRepository interface {
	Create(adj *models.ScheduleAdjustment) error
	Update(adj *models.ScheduleAdjustment) error
	Delete(id uint) error
	GetByID(id uint) (*models.ScheduleAdjustment, error)
	GetByEmployeeAndDate(employeeID uint, date time.Time) (*models.ScheduleAdjustment, error)
	GetByEmployee(employeeID uint) ([]*models.ScheduleAdjustment, error)
	GetAll() ([]*models.ScheduleAdjustment, error)
	GetByPeriod(from, to time.Time) ([]*models.ScheduleAdjustment, error)
}

type GormScheduleAdjustmentRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormScheduleAdjustmentRepository(db *gorm.DB) (*GormScheduleAdjustmentRepository, error) {
	logger := logging.New()

	// Автомиграция
	if err := db.AutoMigrate(&models.ScheduleAdjustment{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate schedule_adjustments table")
		return nil, err
	}

	logger.Debug("Schedule adjustment repository initialized")

	return &GormScheduleAdjustmentRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormScheduleAdjustmentRepository) Create(adj *models.ScheduleAdjustment) error {
	adj.Date = domain.DateOf(adj.Date)

	// Правка на (сотрудник, дата) может быть только одна
	existing, err := r.GetByEmployeeAndDate(adj.EmployeeID, adj.Date)
	if err != nil {
		return err
	}
	if existing != nil {
		r.logger.WithFields(logrus.Fields{
			"employee_id": adj.EmployeeID,
			"date":        adj.Date.Format("2006-01-02"),
		}).Warn("Adjustment already exists")
		return fmt.Errorf("adjustment for employee %d on %s: %w", adj.EmployeeID, adj.Date.Format("2006-01-02"), ErrDuplicate)
	}

	if err := r.db.Create(adj).Error; err != nil {
		r.logger.WithError(err).Error("Failed to create adjustment")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"id":          adj.ID,
		"employee_id": adj.EmployeeID,
		"date":        adj.Date.Format("2006-01-02"),
	}).Debug("Adjustment created")

	return nil
}

func (r *GormScheduleAdjustmentRepository) Update(adj *models.ScheduleAdjustment) error {
	adj.Date = domain.DateOf(adj.Date)

	current, err := r.GetByID(adj.ID)
	if err != nil {
		return err
	}
	if current == nil {
		r.logger.WithField("id", adj.ID).Warn("Adjustment not found for update")
		return ErrRecordNotFound
	}

	other, err := r.GetByEmployeeAndDate(adj.EmployeeID, adj.Date)
	if err != nil {
		return err
	}
	if other != nil && other.ID != adj.ID {
		return fmt.Errorf("adjustment for employee %d on %s: %w", adj.EmployeeID, adj.Date.Format("2006-01-02"), ErrDuplicate)
	}

	adj.CreatedAt = current.CreatedAt
	if err := r.db.Save(adj).Error; err != nil {
		r.logger.WithError(err).Error("Failed to update adjustment")
		return err
	}

	r.logger.WithField("id", adj.ID).Debug("Adjustment updated")
	return nil
}

func (r *GormScheduleAdjustmentRepository) Delete(id uint) error {
	result := r.db.Delete(&models.ScheduleAdjustment{}, id)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to delete adjustment")
		return result.Error
	}
	if result.RowsAffected == 0 {
		r.logger.WithField("id", id).Warn("Adjustment not found for deletion")
		return ErrRecordNotFound
	}
	return nil
}

func (r *GormScheduleAdjustmentRepository) GetByID(id uint) (*models.ScheduleAdjustment, error) {
	var adj models.ScheduleAdjustment
	result := r.db.First(&adj, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get adjustment by ID")
		return nil, result.Error
	}

	return &adj, nil
}

func (r *GormScheduleAdjustmentRepository) GetByEmployeeAndDate(employeeID uint, date time.Time) (*models.ScheduleAdjustment, error) {
	var adj models.ScheduleAdjustment
	result := r.db.Where("employee_id = ? AND date = ?", employeeID, domain.DateOf(date)).First(&adj)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}

	return &adj, nil
}

func (r *GormScheduleAdjustmentRepository) GetByEmployee(employeeID uint) ([]*models.ScheduleAdjustment, error) {
	var adjustments []*models.ScheduleAdjustment
	err := r.db.Where("employee_id = ?", employeeID).
		Order("date ASC").
		Find(&adjustments).Error
	return adjustments, err
}

func (r *GormScheduleAdjustmentRepository) GetAll() ([]*models.ScheduleAdjustment, error) {
	var adjustments []*models.ScheduleAdjustment
	err := r.db.Order("date ASC, employee_id ASC").Find(&adjustments).Error
	return adjustments, err
}

// GetByPeriod возвращает правки с from по to включительно
func (r *GormScheduleAdjustmentRepository) GetByPeriod(from, to time.Time) ([]*models.ScheduleAdjustment, error) {
	var adjustments []*models.ScheduleAdjustment
	err := r.db.Where("date >= ? AND date <= ?", domain.DateOf(from), domain.DateOf(to)).
		Order("date ASC, employee_id ASC").
		Find(&adjustments).Error
	if err != nil {
		r.logger.WithError(err).Error("Failed to get adjustments by period")
		return nil, err
	}

	r.logger.WithFields(logrus.Fields{
		"from":  from.Format("2006-01-02"),
		"to":    to.Format("2006-01-02"),
		"count": len(adjustments),
	}).Debug("Retrieved adjustments")

	return adjustments, nil
}
