package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var holidaysCmd = GroupCommand{
	Use:   "holidays",
	Short: "Manage the production calendar",
	Subcommands: []*cobra.Command{
		holidaysLoadCmd,
	},
}.Build()

var holidaysLoadCmd = LeafCommand{
	Use:   "load [file]",
	Short: "Store non-working days from a production calendar JSON (default HOLIDAYS_PATH)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		return runHolidaysLoad(cmd, a, args)
	},
}.Build()

func runHolidaysLoad(cmd *cobra.Command, a *app, args []string) error {
	path := a.cfg.HolidaysPath
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return errors.New("no calendar file given and HOLIDAYS_PATH is not set")
	}

	n, err := a.holidays.LoadFromJSON(path)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %d non-working days from %s\n", Primary("loaded"), n, path)
	return nil
}
