// Package sheets renders month reports into Excel workbooks in the
// timesheet layout: one worksheet per month, dates in row 6, one employee
// per row from row 7.
package sheets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"schedule-reconciler/internal/domain"
	"schedule-reconciler/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const (
	TemplateSheet = "Template"

	HeaderRow      = 6
	FirstDataRow   = 7
	IndexColumn    = 1 // A
	NameColumn     = 2 // B
	FirstDayColumn = 3 // C
	MaxDays        = 31

	// после AG: итоги по сотруднику
	WorkDaysColumn = FirstDayColumn + MaxDays // AH
	HoursColumn    = WorkDaysColumn + 1       // AI

	commentAuthor = "reconciler"
)

var monthNames = [...]string{
	"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
	"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь",
}

// SheetName returns the worksheet title of a month, e.g. "Январь 2025".
func SheetName(year int, month time.Month) string {
	return fmt.Sprintf("%s %d", monthNames[month-1], year)
}

// Writer keeps the report workbook at Path. Every sync replaces the
// worksheet of the report month; other months stay untouched.
type Writer struct {
	Path         string
	TemplatePath string

	mu     sync.Mutex
	logger *logrus.Logger
}

func NewWriter(path, templatePath string) *Writer {
	return &Writer{Path: path, TemplatePath: templatePath, logger: logging.New()}
}

// WriteReport implements the report sink.
func (w *Writer) WriteReport(ctx context.Context, runID string, report *domain.Report) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := w.open()
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	sheet, err := Render(f, report)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := f.SaveAs(w.Path); err != nil {
		return fmt.Errorf("save %s: %w", w.Path, err)
	}

	w.logger.WithFields(logrus.Fields{
		"run_id": runID,
		"path":   w.Path,
		"sheet":  sheet,
		"rows":   len(report.Rows),
	}).Info("Report written")

	return nil
}

// open returns the existing workbook, a copy of the template or a new file.
func (w *Writer) open() (*excelize.File, error) {
	for _, path := range []string{w.Path, w.TemplatePath} {
		if path == "" {
			continue
		}
		f, err := excelize.OpenFile(path)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
	}
	return excelize.NewFile(), nil
}

// Bytes renders the report into a standalone workbook.
func Bytes(report *domain.Report, templatePath string) ([]byte, error) {
	f := excelize.NewFile()
	if templatePath != "" {
		tpl, err := excelize.OpenFile(templatePath)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("open %s: %w", templatePath, err)
		}
		if err == nil {
			_ = f.Close()
			f = tpl
		}
	}
	defer func() { _ = f.Close() }()

	sheet, err := Render(f, report)
	if err != nil {
		return nil, err
	}

	// лишние листы не нужны в файле для скачивания
	for _, name := range f.GetSheetList() {
		if name != sheet {
			if err := f.DeleteSheet(name); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Render (re)creates the month worksheet in f and fills it.
func Render(f *excelize.File, report *domain.Report) (string, error) {
	if report.Month < time.January || report.Month > time.December {
		return "", fmt.Errorf("invalid report month %d", report.Month)
	}
	name := SheetName(report.Year, report.Month)

	templateRows, err := prepareSheet(f, name)
	if err != nil {
		return "", err
	}

	styles, err := newStyles(f)
	if err != nil {
		return "", err
	}

	r := &renderer{f: f, sheet: name, styles: styles}
	if err := r.header(report); err != nil {
		return "", err
	}
	for i, row := range report.Rows {
		if err := r.employee(FirstDataRow+i, i+1, row, report.DaysInMonth()); err != nil {
			return "", err
		}
	}
	if err := r.hideUnused(report, templateRows); err != nil {
		return "", err
	}

	idx, err := f.GetSheetIndex(name)
	if err != nil {
		return "", err
	}
	f.SetActiveSheet(idx)

	return name, nil
}

// prepareSheet drops a stale sheet of the same month and creates a new one,
// cloned from the template sheet when the workbook has it. It returns the
// number of rows the template has.
func prepareSheet(f *excelize.File, name string) (int, error) {
	to, err := replaceSheet(f, name)
	if err != nil {
		return 0, err
	}

	from, _ := f.GetSheetIndex(TemplateSheet)
	if from < 0 {
		// у нового файла остается пустой Sheet1
		if first := f.GetSheetName(0); first == "Sheet1" && first != name {
			if rows, err := f.GetRows(first); err == nil && len(rows) == 0 {
				if err := f.DeleteSheet(first); err != nil {
					return 0, err
				}
			}
		}
		return 0, nil
	}

	if err := f.CopySheet(from, to); err != nil {
		return 0, fmt.Errorf("copy template: %w", err)
	}
	rows, err := f.GetRows(name)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// replaceSheet returns the index of an empty sheet called name. A sheet
// with that name is dropped first; the new one is created under a
// temporary name so the workbook never runs out of sheets.
func replaceSheet(f *excelize.File, name string) (int, error) {
	if idx, _ := f.GetSheetIndex(name); idx < 0 {
		return f.NewSheet(name)
	}

	const tmp = "~reconciler"
	if _, err := f.NewSheet(tmp); err != nil {
		return 0, err
	}
	if err := f.DeleteSheet(name); err != nil {
		return 0, err
	}
	if err := f.SetSheetName(tmp, name); err != nil {
		return 0, err
	}
	return f.GetSheetIndex(name)
}
