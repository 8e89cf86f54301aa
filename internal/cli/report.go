package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"schedule-reconciler/internal/domain"
	"schedule-reconciler/internal/sheets"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

const nameWidth = 24

var reportCmd = LeafCommand{
	Use:   "report [YYYY-MM | YYYY MM]",
	Short: "Build the month report (current month by default)",
	Args:  cobra.MaximumNArgs(2),
	BoolFlags: []BoolFlag{
		{Name: "sync", Usage: "write the month into REPORT_PATH"},
	},
	StrFlags: []StringFlag{
		{Name: "out", Usage: "write a standalone workbook to this path"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		outFlag, _ := cmd.Flags().GetString("out")
		syncFlag, _ := cmd.Flags().GetBool("sync")

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		return runReport(cmd, a, args, outFlag, syncFlag, time.Now)
	},
}.Build()

func runReport(cmd *cobra.Command, a *app, args []string, outFlag string, syncFlag bool, nowFn func() time.Time) error {
	year, month, err := monthFromArgs(args, nowFn())
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	w := cmd.OutOrStdout()

	if syncFlag {
		runID, err := a.reports.Sync(ctx, year, month, a.sink)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(w, "%s %s -> %s (run %s)\n", Primary("synced"), sheets.SheetName(year, month), a.cfg.ReportPath, Silent(runID))
		return nil
	}

	report, err := a.reports.BuildReport(ctx, year, month)
	if err != nil {
		return err
	}

	if outFlag != "" {
		data, err := sheets.Bytes(report, a.cfg.ReportTemplatePath)
		if err != nil {
			return err
		}
		if err := os.WriteFile(outFlag, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outFlag, err)
		}
		_, _ = fmt.Fprintf(w, "%s %s -> %s\n", Primary("written"), sheets.SheetName(year, month), outFlag)
		return nil
	}

	printReport(w, report)
	return nil
}

// printReport renders the month as a colored grid, one line per employee.
func printReport(w io.Writer, report *domain.Report) {
	days := report.DaysInMonth()
	cellStyle := lipgloss.NewStyle().Width(3)
	nameStyle := lipgloss.NewStyle().Width(nameWidth).MaxWidth(nameWidth)

	_, _ = fmt.Fprintln(w, Primary(sheets.SheetName(report.Year, report.Month)))

	var header strings.Builder
	header.WriteString(nameStyle.Render(""))
	for d := 1; d <= days; d++ {
		header.WriteString(cellStyle.Render(fmt.Sprintf("%d", d)))
	}
	header.WriteString("  days  hours")
	_, _ = fmt.Fprintln(w, Silent(header.String()))

	if len(report.Rows) == 0 {
		_, _ = fmt.Fprintln(w, Warning("no active employees"))
		return
	}

	for _, row := range report.Rows {
		var line strings.Builder
		line.WriteString(nameStyle.Render(row.Name))
		for d := 1; d <= days; d++ {
			cell := row.Days[d]
			line.WriteString(colorCode(cell.Code, cellStyle.Render(string(cell.Code))))
		}
		summary := domain.Summarize(row)
		line.WriteString(fmt.Sprintf("  %4d  %s", summary.WorkDays, summary.ScheduledHours.StringFixed(1)))
		_, _ = fmt.Fprintln(w, line.String())
	}
}

func colorCode(code domain.StatusCode, text string) string {
	switch {
	case code == domain.CodeDayOff:
		return Silent(text)
	case code.IsNonWorking():
		return Warning(text)
	case code.HasRemote():
		return Info(text)
	default:
		return text
	}
}
