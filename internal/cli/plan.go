package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"schedule-reconciler/internal/service"
	"schedule-reconciler/internal/sheets"

	"github.com/spf13/cobra"
)

var planCmd = GroupCommand{
	Use:   "plan",
	Short: "Manage the baseline plan",
	Subcommands: []*cobra.Command{
		planGenerateCmd,
		planImportCmd,
	},
}.Build()

var planGenerateCmd = LeafCommand{
	Use:   "generate [YYYY-MM | YYYY MM]",
	Short: "Fill missing plan days with work and day-off codes",
	Args:  cobra.MaximumNArgs(2),
	StrFlags: []StringFlag{
		{Name: "employees", Usage: "comma separated employee ids (default: all active)"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		employeesFlag, _ := cmd.Flags().GetString("employees")

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		a.loadHolidays()
		return runPlanGenerate(cmd, a, args, employeesFlag, time.Now)
	},
}.Build()

func runPlanGenerate(cmd *cobra.Command, a *app, args []string, employeesFlag string, nowFn func() time.Time) error {
	year, month, err := monthFromArgs(args, nowFn())
	if err != nil {
		return err
	}

	ids, err := parseIDList(employeesFlag)
	if err != nil {
		return err
	}

	created, err := a.generator.Generate(commandContext(cmd), year, month, ids...)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %d plan rows for %s\n", Primary("created"), created, sheets.SheetName(year, month))
	return nil
}

var planImportCmd = LeafCommand{
	Use:   "import <file>",
	Short: "Import plan codes from an .xlsx or .xls sheet",
	Args:  cobra.ExactArgs(1),
	IntFlags: []IntFlag{
		{Name: "year", Usage: "year, when the header holds day numbers"},
		{Name: "month", Usage: "month, when the header holds day numbers"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		yearFlag, _ := cmd.Flags().GetInt("year")
		monthFlag, _ := cmd.Flags().GetInt("month")

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		return runPlanImport(cmd, a, args[0], yearFlag, monthFlag)
	},
}.Build()

func runPlanImport(cmd *cobra.Command, a *app, path string, year, month int) error {
	if (year == 0) != (month == 0) {
		return fmt.Errorf("--year and --month must be given together")
	}
	if month < 0 || month > 12 {
		return fmt.Errorf("invalid month %d", month)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	result, err := a.importer.Import(commandContext(cmd), f, filepath.Base(path), service.ImportOptions{
		Year:  year,
		Month: time.Month(month),
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(w, "%s %d plan rows for %d employees\n", Primary("imported"), result.Rows, result.Employees)
	for _, name := range result.Unmatched {
		_, _ = fmt.Fprintf(w, "%s %s\n", Warning("unmatched:"), name)
	}
	return nil
}

func parseIDList(s string) ([]uint, error) {
	var ids []uint
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseUint(part, 10, 64)
		if err != nil || v == 0 {
			return nil, fmt.Errorf("invalid employee id %q", part)
		}
		ids = append(ids, uint(v))
	}
	return ids, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
