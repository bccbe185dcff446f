package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-timeclock/internal/timeclock"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Refresh every day file and print one summary line per day",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	history, err := e.co.History()
	if err != nil {
		return err
	}
	printHistory(e.out, history)
	return nil
}

// printHistory prints each clock's summaries separated by blank lines.
func printHistory(w io.Writer, history []timeclock.ClockHistory) {
	if len(history) == 0 {
		fmt.Fprintln(w, "No clocks found.")
		return
	}
	for i, h := range history {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, h.String())
	}
}
