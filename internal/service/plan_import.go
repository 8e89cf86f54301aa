package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"schedule-reconciler/internal/domain"
	"schedule-reconciler/internal/logging"
	"schedule-reconciler/internal/models"
	"schedule-reconciler/internal/repository"

	"github.com/extrame/xls"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const (
	importNameColumn     = 1 // B
	importFirstDayColumn = 2 // C
)

// ImportOptions задает месяц, если в заголовке листа номера дней, а не даты
type ImportOptions struct {
	Year  int
	Month time.Month
}

type ImportResult struct {
	Rows      int      `json:"rows"`
	Employees int      `json:"employees"`
	Unmatched []string `json:"unmatched"`
}

// PlanImporter загружает плановый график из таблицы в формате табеля:
// ФИО в колонке B, коды по дням начиная с колонки C.
type PlanImporter struct {
	employees repository.EmployeeRepository
	plans     *ScheduleBaseService
	logger    *logrus.Logger
}

func NewPlanImporter(employees repository.EmployeeRepository, plans *ScheduleBaseService) *PlanImporter {
	return &PlanImporter{employees: employees, plans: plans, logger: logging.New()}
}

func (p *PlanImporter) Import(ctx context.Context, reader io.Reader, filename string, opts ImportOptions) (*ImportResult, error) {
	rows, err := ReadSpreadsheetRows(reader, filename)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения таблицы: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	employees, err := p.employees.GetAll()
	if err != nil {
		return nil, err
	}

	plans, result, err := ParsePlanRows(rows, employees, opts)
	if err != nil {
		return nil, err
	}

	if err := p.plans.ImportPlans(plans); err != nil {
		return nil, err
	}

	p.logger.WithFields(logrus.Fields{
		"file":      filepath.Base(filename),
		"rows":      result.Rows,
		"employees": result.Employees,
		"unmatched": len(result.Unmatched),
	}).Info("Plan imported")

	return result, nil
}

// ReadSpreadsheetRows читает первый лист .xls или .xlsx
func ReadSpreadsheetRows(reader io.Reader, filename string) ([][]string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xls":
		workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
		if err != nil {
			return nil, err
		}
		if workbook.NumSheets() == 0 {
			return nil, fmt.Errorf("no worksheet found")
		}
		rows := workbook.ReadAllCells(100000)
		if len(rows) == 0 {
			return nil, fmt.Errorf("worksheet is empty")
		}
		return rows, nil
	default:
		file, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer func() { _ = file.Close() }()

		sheetName := file.GetSheetName(0)
		if sheetName == "" {
			return nil, fmt.Errorf("no worksheet found")
		}

		rows, err := file.GetRows(sheetName)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, fmt.Errorf("worksheet is empty")
		}
		return rows, nil
	}
}

// ParsePlanRows находит строку заголовка с датами и превращает строки
// сотрудников в строки плана. Коды формата работы (Д, ЯД, ДЯ) читаются как "Я".
func ParsePlanRows(rows [][]string, employees []*models.Employee, opts ImportOptions) ([]*models.ScheduleBase, *ImportResult, error) {
	headerIdx, dates, err := findDateHeader(rows, opts)
	if err != nil {
		return nil, nil, err
	}

	byName := make(map[string]*models.Employee, len(employees))
	for _, e := range employees {
		byName[normalizeName(e.FullName)] = e
	}

	result := &ImportResult{Unmatched: []string{}}
	var plans []*models.ScheduleBase

	for r := headerIdx + 1; r < len(rows); r++ {
		row := rows[r]
		name := cellValue(row, importNameColumn)
		if name == "" {
			continue
		}

		employee, ok := byName[normalizeName(name)]
		if !ok {
			result.Unmatched = append(result.Unmatched, name)
			continue
		}
		result.Employees++

		for i, date := range dates {
			if date.IsZero() {
				continue
			}
			raw := cellValue(row, importFirstDayColumn+i)
			if raw == "" {
				continue
			}

			code, err := planCodeFromCell(raw)
			if err != nil {
				cell, _ := excelize.CoordinatesToCellName(importFirstDayColumn+i+1, r+1)
				return nil, nil, invalid(cell, err.Error())
			}

			plans = append(plans, &models.ScheduleBase{
				EmployeeID: employee.ID,
				Date:       date,
				BaseCode:   string(code),
			})
		}
	}

	result.Rows = len(plans)
	return plans, result, nil
}

func findDateHeader(rows [][]string, opts ImportOptions) (int, []time.Time, error) {
	for r, row := range rows {
		first := cellValue(row, importFirstDayColumn)
		if first == "" {
			continue
		}

		if _, err := ParseDate(first); err == nil {
			dates := make([]time.Time, 0, len(row)-importFirstDayColumn)
			for c := importFirstDayColumn; c < len(row); c++ {
				d, err := ParseDate(cellValue(row, c))
				if err != nil {
					d = time.Time{}
				}
				dates = append(dates, d)
			}
			return r, dates, nil
		}

		if opts.Year > 0 && opts.Month >= time.January && opts.Month <= time.December && first == "1" {
			numDays := domain.DaysIn(opts.Year, opts.Month)
			dates := make([]time.Time, 0, len(row)-importFirstDayColumn)
			for c := importFirstDayColumn; c < len(row); c++ {
				day, err := strconv.Atoi(cellValue(row, c))
				if err != nil || day < 1 || day > numDays {
					dates = append(dates, time.Time{})
					continue
				}
				dates = append(dates, time.Date(opts.Year, opts.Month, day, 0, 0, 0, 0, time.UTC))
			}
			return r, dates, nil
		}
	}

	return 0, nil, invalid("header", "не найдена строка с датами в колонке C")
}

func planCodeFromCell(raw string) (domain.StatusCode, error) {
	code, err := domain.ParseStatusCode(strings.ToUpper(raw))
	if err != nil {
		return "", err
	}
	if code.IsLocation() {
		return domain.CodeWork, nil
	}
	return code, nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
