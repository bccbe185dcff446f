package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-timeclock/internal/timeclock"
)

var inCmd = &cobra.Command{
	Use:   "in [clock]",
	Short: "Clock in, clocking out every other clock",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runIn,
}

func runIn(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	name := e.clockName(args)

	c, err := e.co.Clock(name)
	if err != nil {
		return err
	}
	st, err := c.State()
	if err != nil {
		return err
	}
	if st == timeclock.In {
		return &timeclock.StateError{Clock: name, Op: "clock in", State: st}
	}

	// Report the clocks that get closed so the switch is visible.
	closed, err := e.co.ClockOutAll(name)
	if err != nil {
		return err
	}
	for _, report := range closed {
		fmt.Fprintln(e.out, report)
		fmt.Fprintln(e.out)
	}

	report, err := e.co.ClockIn(name)
	if err != nil {
		return err
	}
	fmt.Fprintln(e.out, report)
	return nil
}
