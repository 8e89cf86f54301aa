package repository

import (
	"errors"
	"fmt"

	"schedule-reconciler/internal/logging"
	"schedule-reconciler/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type EmployeeRepository interface {
	Create(employee *models.Employee) error
	Update(employee *models.Employee) error
	Delete(id uint) error
	GetByID(id uint) (*models.Employee, error)
	GetByTelegramID(telegramID int64) (*models.Employee, error)
	GetAll() ([]*models.Employee, error)
	GetActive() ([]*models.Employee, error)
	GetAdmins() ([]*models.Employee, error)
}

type GormEmployeeRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormEmployeeRepository(db *gorm.DB) (*GormEmployeeRepository, error) {
	logger := logging.New()

	// Автомиграция
	if err := db.AutoMigrate(&models.Employee{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate users table")
		return nil, err
	}

	logger.Debug("Employee repository initialized")

	return &GormEmployeeRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormEmployeeRepository) Create(employee *models.Employee) error {
	if employee.TelegramID != nil {
		existing, err := r.GetByTelegramID(*employee.TelegramID)
		if err != nil {
			return err
		}
		if existing != nil {
			r.logger.WithField("tg_user_id", *employee.TelegramID).Warn("Employee with telegram id already exists")
			return fmt.Errorf("tg_user_id %d: %w", *employee.TelegramID, ErrDuplicate)
		}
	}

	if err := r.db.Create(employee).Error; err != nil {
		r.logger.WithError(err).Error("Failed to create employee")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"id":  employee.ID,
		"fio": employee.FullName,
	}).Info("Employee created")

	return nil
}

func (r *GormEmployeeRepository) Update(employee *models.Employee) error {
	if employee.TelegramID != nil {
		existing, err := r.GetByTelegramID(*employee.TelegramID)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != employee.ID {
			return fmt.Errorf("tg_user_id %d: %w", *employee.TelegramID, ErrDuplicate)
		}
	}

	current, err := r.GetByID(employee.ID)
	if err != nil {
		return err
	}
	if current == nil {
		r.logger.WithField("id", employee.ID).Warn("Employee not found for update")
		return ErrRecordNotFound
	}
	employee.CreatedAt = current.CreatedAt

	// Save пишет все поля, включая нулевые (is_active = false)
	if err := r.db.Save(employee).Error; err != nil {
		r.logger.WithError(err).Error("Failed to update employee")
		return err
	}

	r.logger.WithField("id", employee.ID).Info("Employee updated")
	return nil
}

// Delete удаляет сотрудника вместе с его планом и правками.
func (r *GormEmployeeRepository) Delete(id uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("employee_id = ?", id).Delete(&models.ScheduleBase{}).Error; err != nil {
			return err
		}
		if err := tx.Where("employee_id = ?", id).Delete(&models.ScheduleAdjustment{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Employee{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		r.logger.WithError(err).WithField("id", id).Warn("Failed to delete employee")
		return err
	}

	r.logger.WithField("id", id).Info("Employee deleted")
	return nil
}

func (r *GormEmployeeRepository) GetByID(id uint) (*models.Employee, error) {
	var employee models.Employee
	result := r.db.First(&employee, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithField("id", id).Debug("Employee not found")
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get employee by ID")
		return nil, result.Error
	}

	return &employee, nil
}

func (r *GormEmployeeRepository) GetByTelegramID(telegramID int64) (*models.Employee, error) {
	var employee models.Employee
	result := r.db.Where("tg_user_id = ?", telegramID).First(&employee)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get employee by telegram id")
		return nil, result.Error
	}

	return &employee, nil
}

func (r *GormEmployeeRepository) GetAll() ([]*models.Employee, error) {
	var employees []*models.Employee
	if err := r.db.Order("fio ASC, id ASC").Find(&employees).Error; err != nil {
		r.logger.WithError(err).Error("Failed to get employees")
		return nil, err
	}
	return employees, nil
}

// GetActive возвращает активных сотрудников по алфавиту
func (r *GormEmployeeRepository) GetActive() ([]*models.Employee, error) {
	var employees []*models.Employee
	err := r.db.Where("is_active = ?", true).
		Order("fio ASC, id ASC").
		Find(&employees).Error
	if err != nil {
		r.logger.WithError(err).Error("Failed to get active employees")
		return nil, err
	}

	r.logger.WithField("count", len(employees)).Debug("Retrieved active employees")
	return employees, nil
}

func (r *GormEmployeeRepository) GetAdmins() ([]*models.Employee, error) {
	var admins []*models.Employee
	err := r.db.Where("role = ?", models.RoleAdmin).Find(&admins).Error
	return admins, err
}
