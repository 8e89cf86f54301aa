package service

import (
	"strings"
	"time"

	"schedule-reconciler/internal/domain"
)

var dateLayouts = []string{"2006-01-02", "02.01.2006"}

// ParseDate принимает YYYY-MM-DD или DD.MM.YYYY
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return domain.DateOf(t), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func parseDateField(field string, s *string) (time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return time.Time{}, invalid(field, "обязательное поле")
	}
	t, err := ParseDate(*s)
	if err != nil {
		return time.Time{}, invalid(field, "ожидается дата YYYY-MM-DD")
	}
	return t, nil
}

// parseTimeField: пустая строка очищает значение
func parseTimeField(field string, s string) (*domain.TimeOfDay, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := domain.ParseTimeOfDay(s)
	if err != nil {
		return nil, invalid(field, "ожидается время HH:MM")
	}
	return &t, nil
}
