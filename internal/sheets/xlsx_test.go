package sheets

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"schedule-reconciler/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testReport(year int, month time.Month) *domain.Report {
	employees := []domain.Employee{
		{ID: 1, Name: "Иванов Иван", Mode: domain.ModeOfficeFixed, StartTime: domain.TimePtr("09:00"), EndTime: domain.TimePtr("18:00"), LunchStart: domain.TimePtr("13:00")},
		{ID: 2, Name: "Петрова Анна", Mode: domain.ModeAlwaysRemote},
	}
	adjustments := []domain.Adjustment{
		{EmployeeID: 1, Date: time.Date(year, month, 3, 0, 0, 0, 0, time.UTC), Override: domain.LocationOverride(domain.CodeRemoteFull)},
	}
	return domain.BuildMonthReport(year, month, employees, nil, adjustments)
}

func commentText(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	comments, err := f.GetComments(sheet)
	require.NoError(t, err)
	for _, c := range comments {
		if c.Cell != cell {
			continue
		}
		var sb strings.Builder
		sb.WriteString(c.Text)
		for _, run := range c.Paragraph {
			sb.WriteString(run.Text)
		}
		return sb.String()
	}
	return ""
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Январь 2025", SheetName(2025, time.January))
	assert.Equal(t, "Декабрь 2024", SheetName(2024, time.December))
}

func TestWriterLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	w := NewWriter(path, "")

	// 2025-02-03 is a Monday
	require.NoError(t, w.WriteReport(context.Background(), "run-1", testReport(2025, time.February)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheet := "Февраль 2025"
	assert.Equal(t, []string{sheet}, f.GetSheetList())

	get := func(cell string) string {
		v, err := f.GetCellValue(sheet, cell)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "ФИО", get("B6"))
	assert.Equal(t, "01.02.2025", get("C6"))
	assert.Equal(t, "28.02.2025", get("AD6"))
	assert.Equal(t, "", get("AE6"))

	assert.Equal(t, "1", get("A7"))
	assert.Equal(t, "Иванов Иван", get("B7"))
	assert.Equal(t, "В", get("C7"))
	assert.Equal(t, "Д", get("E7"))
	assert.Equal(t, "Я", get("F7"))
	assert.Equal(t, "Петрова Анна", get("B8"))
	assert.Equal(t, "Д", get("F8"))

	assert.Equal(t, "20", get("AH7"))
	assert.Equal(t, "160", get("AI7"))
	assert.Equal(t, "0", get("AI8"))

	assert.Contains(t, commentText(t, f, sheet, "E7"), "unscheduled remote work")
	assert.Contains(t, commentText(t, f, sheet, "F7"), "lunch: 13:00-14:00")
	assert.Empty(t, commentText(t, f, sheet, "C7"))

	visible, err := f.GetColVisible(sheet, "AE")
	require.NoError(t, err)
	assert.False(t, visible)
	visible, err = f.GetColVisible(sheet, "AD")
	require.NoError(t, err)
	assert.True(t, visible)
}

func TestWriterKeepsOtherMonths(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	w := NewWriter(path, "")
	ctx := context.Background()

	require.NoError(t, w.WriteReport(ctx, "run-1", testReport(2025, time.January)))
	require.NoError(t, w.WriteReport(ctx, "run-2", testReport(2025, time.February)))
	require.NoError(t, w.WriteReport(ctx, "run-3", testReport(2025, time.January)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Январь 2025", "Февраль 2025"}, f.GetSheetList())
	assert.Equal(t, "Январь 2025", f.GetSheetName(f.GetActiveSheetIndex()))
}

func TestWriterTemplate(t *testing.T) {
	dir := t.TempDir()
	templatePath := filepath.Join(dir, "template.xlsx")

	tpl := excelize.NewFile()
	require.NoError(t, tpl.SetSheetName("Sheet1", TemplateSheet))
	require.NoError(t, tpl.SetCellValue(TemplateSheet, "A1", "ООО Ромашка"))
	for row := FirstDataRow; row <= 20; row++ {
		cell, _ := excelize.CoordinatesToCellName(IndexColumn, row)
		require.NoError(t, tpl.SetCellValue(TemplateSheet, cell, row-FirstDataRow+1))
	}
	require.NoError(t, tpl.SaveAs(templatePath))
	require.NoError(t, tpl.Close())

	path := filepath.Join(dir, "report.xlsx")
	w := NewWriter(path, templatePath)
	require.NoError(t, w.WriteReport(context.Background(), "run-1", testReport(2025, time.March)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{TemplateSheet, "Март 2025"}, f.GetSheetList())

	visible, err := f.GetRowVisible("Март 2025", 8)
	require.NoError(t, err)
	assert.True(t, visible)
	visible, err = f.GetRowVisible("Март 2025", 9)
	require.NoError(t, err)
	assert.False(t, visible)
	visible, err = f.GetRowVisible("Март 2025", 20)
	require.NoError(t, err)
	assert.False(t, visible)

	visible, err = f.GetColVisible("Март 2025", "AG")
	require.NoError(t, err)
	assert.True(t, visible)
}

func TestBytes(t *testing.T) {
	data, err := Bytes(testReport(2025, time.April), "")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Апрель 2025"}, f.GetSheetList())
	v, err := f.GetCellValue("Апрель 2025", "B7")
	require.NoError(t, err)
	assert.Equal(t, "Иванов Иван", v)
}
