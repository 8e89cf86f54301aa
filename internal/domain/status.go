package domain

import (
	"fmt"
	"strings"
)

// StatusCode - код состояния сотрудника на день, как он пишется в табель.
type StatusCode string

const (
	CodeWork           StatusCode = "Я"  // Работа (явка в офис)
	CodeDayOff         StatusCode = "В"  // Выходной
	CodeVacation       StatusCode = "О"  // Отпуск
	CodeSickLeave      StatusCode = "Б"  // Больничный
	CodeBusinessTrip   StatusCode = "К"  // Командировка
	CodeStudyLeave     StatusCode = "У"  // Учебный отпуск
	CodeRemoteFull     StatusCode = "Д"  // Удаленно весь день
	CodeOfficeToRemote StatusCode = "ЯД" // Офис до обеда, затем удаленно
	CodeRemoteToOffice StatusCode = "ДЯ" // Удаленно до обеда, затем офис

	// CodeOfficeFull is the location spelling of CodeWork.
	CodeOfficeFull = CodeWork
)

var statusNames = map[StatusCode]string{
	CodeWork:           "work",
	CodeDayOff:         "day-off",
	CodeVacation:       "vacation",
	CodeSickLeave:      "sick-leave",
	CodeBusinessTrip:   "business-trip",
	CodeStudyLeave:     "study-leave",
	CodeRemoteFull:     "remote-full",
	CodeOfficeToRemote: "office-to-remote",
	CodeRemoteToOffice: "remote-to-office",
}

// AllStatusCodes returns the closed vocabulary in table order.
func AllStatusCodes() []StatusCode {
	return []StatusCode{
		CodeWork, CodeDayOff, CodeVacation, CodeSickLeave, CodeBusinessTrip,
		CodeStudyLeave, CodeRemoteFull, CodeOfficeToRemote, CodeRemoteToOffice,
	}
}

// ParseStatusCode accepts either the wire code ("Б") or its name ("sick-leave").
func ParseStatusCode(s string) (StatusCode, error) {
	s = strings.TrimSpace(s)
	code := StatusCode(s)
	if code.IsValid() {
		return code, nil
	}
	for c, name := range statusNames {
		if strings.EqualFold(name, s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown status code %q", s)
}

func (c StatusCode) IsValid() bool {
	_, ok := statusNames[c]
	return ok
}

// Name returns the latin name of the code, or the raw value for unknown codes.
func (c StatusCode) Name() string {
	if name, ok := statusNames[c]; ok {
		return name
	}
	return string(c)
}

func (c StatusCode) String() string { return string(c) }

// IsNonWorking reports codes that suppress every time, lunch and absence note.
func (c StatusCode) IsNonWorking() bool {
	switch c {
	case CodeDayOff, CodeVacation, CodeSickLeave, CodeBusinessTrip, CodeStudyLeave:
		return true
	}
	return false
}

// IsPlanCode reports codes allowed on a baseline plan row.
func (c StatusCode) IsPlanCode() bool {
	return c == CodeWork || c.IsNonWorking()
}

// IsLocation reports codes of the location-only enumeration.
func (c StatusCode) IsLocation() bool {
	switch c {
	case CodeOfficeFull, CodeRemoteFull, CodeOfficeToRemote, CodeRemoteToOffice:
		return true
	}
	return false
}

// HasRemote reports whether any part of the day is spent remotely.
func (c StatusCode) HasRemote() bool {
	return c.IsLocation() && strings.Contains(string(c), string(CodeRemoteFull))
}

// EmploymentMode - тип занятости сотрудника.
type EmploymentMode string

const (
	ModeAlwaysRemote     EmploymentMode = "ALWAYS_REMOTE"
	ModeRemoteBySchedule EmploymentMode = "REMOTE_BY_SCHEDULE"
	ModeOfficeFixed      EmploymentMode = "OFFICE_FIXED"
	ModeOfficeFlex       EmploymentMode = "OFFICE_FLEX"
)

func (m EmploymentMode) IsValid() bool {
	switch m {
	case ModeAlwaysRemote, ModeRemoteBySchedule, ModeOfficeFixed, ModeOfficeFlex:
		return true
	}
	return false
}

// ParseEmploymentMode maps an empty value to ModeOfficeFixed.
func ParseEmploymentMode(s string) (EmploymentMode, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return ModeOfficeFixed, nil
	}
	m := EmploymentMode(s)
	if !m.IsValid() {
		return "", fmt.Errorf("unknown employment mode %q", s)
	}
	return m, nil
}

// DefaultFormat is the location code a working day gets without an override.
func (m EmploymentMode) DefaultFormat() StatusCode {
	if m == ModeAlwaysRemote {
		return CodeRemoteFull
	}
	return CodeOfficeFull
}
