package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "reconciler",
	Short:        "Employee timesheet reconciler",
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(botCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(holidaysCmd)
	rootCmd.AddCommand(versionCmd)
}

func Execute() error {
	return rootCmd.Execute()
}

// monthFromArgs: no args is the current month, "YYYY-MM" or "YYYY MM" pick one.
func monthFromArgs(args []string, now time.Time) (int, time.Month, error) {
	switch len(args) {
	case 0:
		return now.Year(), now.Month(), nil
	case 1:
		t, err := time.Parse("2006-01", args[0])
		if err != nil {
			return 0, 0, fmt.Errorf("invalid month %q, expected YYYY-MM", args[0])
		}
		return t.Year(), t.Month(), nil
	case 2:
		year, err := strconv.Atoi(args[0])
		if err != nil || year < 1 || year > 9999 {
			return 0, 0, fmt.Errorf("invalid year %q", args[0])
		}
		month, err := strconv.Atoi(args[1])
		if err != nil || month < 1 || month > 12 {
			return 0, 0, fmt.Errorf("invalid month %q", args[1])
		}
		return year, time.Month(month), nil
	}
	return 0, 0, fmt.Errorf("expected at most 2 arguments, got %d", len(args))
}
