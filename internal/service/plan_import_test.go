package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"schedule-reconciler/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParsePlanRows(t *testing.T) {
	employees := []*models.Employee{
		{ID: 1, FullName: "Иванов Иван"},
		{ID: 2, FullName: "Петров  Петр"},
	}

	rows := [][]string{
		{"Табель"},
		{},
		{"№", "ФИО", "01.02.2025", "02.02.2025", "03.02.2025"},
		{"1", "иванов иван", "В", "", "ЯД"},
		{"2", "Петров Петр", "В", "В", "б"},
		{"3", "Сидоров", "Я"},
	}

	plans, result, err := ParsePlanRows(rows, employees, ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 5, result.Rows)
	assert.Equal(t, 2, result.Employees)
	assert.Equal(t, []string{"Сидоров"}, result.Unmatched)

	require.Len(t, plans, 5)
	assert.Equal(t, uint(1), plans[0].EmployeeID)
	assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), plans[0].Date)
	assert.Equal(t, "В", plans[0].BaseCode)
	assert.Equal(t, "Я", plans[1].BaseCode)
	assert.Equal(t, time.Date(2025, time.February, 3, 0, 0, 0, 0, time.UTC), plans[1].Date)
	assert.Equal(t, "Б", plans[4].BaseCode)
}

func TestParsePlanRowsDayNumbers(t *testing.T) {
	employees := []*models.Employee{{ID: 7, FullName: "Иванов Иван"}}
	rows := [][]string{
		{"", "ФИО", "1", "2", "31"},
		{"1", "Иванов Иван", "О", "О", "О"},
	}

	_, _, err := ParsePlanRows(rows, employees, ImportOptions{})
	assert.ErrorIs(t, err, ErrValidation)

	plans, _, err := ParsePlanRows(rows, employees, ImportOptions{Year: 2025, Month: time.February})
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, 2, plans[1].Date.Day())
}

func TestParsePlanRowsBadCode(t *testing.T) {
	employees := []*models.Employee{{ID: 1, FullName: "Иванов Иван"}}
	rows := [][]string{
		{"", "", "01.02.2025"},
		{"1", "Иванов Иван", "Z"},
	}

	_, _, err := ParsePlanRows(rows, employees, ImportOptions{})
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "C2")
}

func TestPlanImporterXLSX(t *testing.T) {
	env := newTestEnv(t)
	empID := env.addEmployee(t, "Иванов Иван", "OFFICE_FIXED")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "B6", &[]any{"ФИО", "01.03.2025", "02.03.2025", "03.03.2025"}))
	require.NoError(t, f.SetSheetRow(sheet, "A7", &[]any{1, "Иванов Иван", "В", "В", "К"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	result, err := env.importer.Import(context.Background(), &buf, "plan.xlsx", ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Rows)
	assert.Empty(t, result.Unmatched)

	rows, err := env.plans.ListPlans(empID)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "К", rows[2].BaseCode)

	_, err = env.importer.Import(context.Background(), bytes.NewReader([]byte("not a workbook")), "plan.xlsx", ImportOptions{})
	assert.Error(t, err)
}
