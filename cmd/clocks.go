package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-timeclock/internal/timecalc"
)

var clocksCmd = &cobra.Command{
	Use:   "clocks",
	Short: "List clocks and whether each is clocked in",
	Args:  cobra.NoArgs,
	RunE:  runClocks,
}

func runClocks(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	clocks, err := e.co.Clocks()
	if err != nil {
		return err
	}
	if len(clocks) == 0 {
		fmt.Fprintln(e.out, "No clocks found.")
		return nil
	}
	for _, c := range clocks {
		st, err := c.Status()
		if err != nil {
			return err
		}
		if st.DateKey == "" {
			fmt.Fprintf(e.out, "%-20s%-5s-\n", c.Name(), st.State)
			continue
		}
		total := st.Entries.CumulativeDuration(timecalc.Now(nowClock))
		fmt.Fprintf(e.out, "%-20s%-5s%s  %s\n", c.Name(), st.State, st.DateKey, timecalc.FormatDuration(total))
	}
	return nil
}
