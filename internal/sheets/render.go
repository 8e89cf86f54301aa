package sheets

import (
	"time"

	"schedule-reconciler/internal/domain"

	"github.com/xuri/excelize/v2"
)

type styleSet struct {
	header     int
	working    int
	remote     int
	nonWorking int
}

func newStyles(f *excelize.File) (styleSet, error) {
	var s styleSet
	var err error

	center := &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true}
	border := []excelize.Border{
		{Type: "left", Color: "#BFBFBF", Style: 1},
		{Type: "right", Color: "#BFBFBF", Style: 1},
		{Type: "top", Color: "#BFBFBF", Style: 1},
		{Type: "bottom", Color: "#BFBFBF", Style: 1},
	}

	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: center,
		Border:    border,
	}); err != nil {
		return s, err
	}
	if s.working, err = f.NewStyle(&excelize.Style{Alignment: center, Border: border}); err != nil {
		return s, err
	}
	if s.remote, err = f.NewStyle(&excelize.Style{
		Alignment: center,
		Border:    border,
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	}); err != nil {
		return s, err
	}
	if s.nonWorking, err = f.NewStyle(&excelize.Style{
		Alignment: center,
		Border:    border,
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9D9D9"}},
	}); err != nil {
		return s, err
	}

	return s, nil
}

type renderer struct {
	f      *excelize.File
	sheet  string
	styles styleSet
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func (r *renderer) set(col, row int, value any) error {
	return r.f.SetCellValue(r.sheet, cellName(col, row), value)
}

func (r *renderer) header(report *domain.Report) error {
	if err := r.set(IndexColumn, 1, "Табель учета рабочего времени"); err != nil {
		return err
	}
	if err := r.set(IndexColumn, 2, SheetName(report.Year, report.Month)); err != nil {
		return err
	}

	if err := r.set(IndexColumn, HeaderRow, "№"); err != nil {
		return err
	}
	if err := r.set(NameColumn, HeaderRow, "ФИО"); err != nil {
		return err
	}
	for day := 1; day <= report.DaysInMonth(); day++ {
		date := time.Date(report.Year, report.Month, day, 0, 0, 0, 0, time.UTC)
		if err := r.set(FirstDayColumn+day-1, HeaderRow, date.Format("02.01.2006")); err != nil {
			return err
		}
	}
	if err := r.set(WorkDaysColumn, HeaderRow, "Рабочих дней"); err != nil {
		return err
	}
	if err := r.set(HoursColumn, HeaderRow, "Часов"); err != nil {
		return err
	}

	if err := r.f.SetCellStyle(r.sheet, cellName(IndexColumn, HeaderRow), cellName(HoursColumn, HeaderRow), r.styles.header); err != nil {
		return err
	}
	if err := r.f.SetColWidth(r.sheet, "B", "B", 32); err != nil {
		return err
	}
	first, _ := excelize.ColumnNumberToName(FirstDayColumn)
	last, _ := excelize.ColumnNumberToName(FirstDayColumn + MaxDays - 1)
	return r.f.SetColWidth(r.sheet, first, last, 11)
}

func (r *renderer) employee(rowNum, index int, row domain.EmployeeRow, days int) error {
	if err := r.set(IndexColumn, rowNum, index); err != nil {
		return err
	}
	if err := r.set(NameColumn, rowNum, row.Name); err != nil {
		return err
	}

	for day := 1; day <= days; day++ {
		cell, ok := row.Days[day]
		if !ok {
			continue
		}
		col := FirstDayColumn + day - 1
		if err := r.set(col, rowNum, string(cell.Code)); err != nil {
			return err
		}
		if err := r.f.SetCellStyle(r.sheet, cellName(col, rowNum), cellName(col, rowNum), r.styleFor(cell.Code)); err != nil {
			return err
		}
		if cell.Note != "" {
			if err := r.f.AddComment(r.sheet, excelize.Comment{
				Cell:   cellName(col, rowNum),
				Author: commentAuthor,
				Text:   cell.Note,
			}); err != nil {
				return err
			}
		}
	}

	summary := domain.Summarize(row)
	if err := r.set(WorkDaysColumn, rowNum, summary.WorkDays); err != nil {
		return err
	}
	return r.set(HoursColumn, rowNum, summary.ScheduledHours.InexactFloat64())
}

func (r *renderer) styleFor(code domain.StatusCode) int {
	switch {
	case code.IsNonWorking():
		return r.styles.nonWorking
	case code.HasRemote():
		return r.styles.remote
	default:
		return r.styles.working
	}
}

// hideUnused hides day columns past the end of the month and template rows
// left without an employee.
func (r *renderer) hideUnused(report *domain.Report, templateRows int) error {
	if days := report.DaysInMonth(); days < MaxDays {
		first, _ := excelize.ColumnNumberToName(FirstDayColumn + days)
		last, _ := excelize.ColumnNumberToName(FirstDayColumn + MaxDays - 1)
		if err := r.f.SetColVisible(r.sheet, first+":"+last, false); err != nil {
			return err
		}
	}

	for row := FirstDataRow + len(report.Rows); row <= templateRows; row++ {
		if err := r.f.SetRowVisible(r.sheet, row, false); err != nil {
			return err
		}
	}
	return nil
}
