package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var outCmd = &cobra.Command{
	Use:   "out [clock]",
	Short: "Clock out",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runOut,
}

func runOut(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	report, err := e.co.ClockOut(e.clockName(args))
	if err != nil {
		return err
	}
	fmt.Fprintln(e.out, report)
	return nil
}
