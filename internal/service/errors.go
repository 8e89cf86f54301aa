package service

import (
	"errors"
	"fmt"

	"schedule-reconciler/internal/repository"
)

var (
	ErrValidation = errors.New("ошибка валидации")
	ErrNotFound   = errors.New("не найдено")
	ErrConflict   = errors.New("конфликт данных")
)

// ValidationError описывает некорректное поле входных данных
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func notFound(what string, id uint) error {
	return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
}

// mapRepoErr переводит ошибки репозитория в ошибки сервиса
func mapRepoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrRecordNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, repository.ErrDuplicate):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	default:
		return err
	}
}
