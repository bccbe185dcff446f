package cmd

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-timeclock/internal/timecalc"
	"github.com/Tiliavir/trivial-timeclock/internal/timeclock"
)

var statusCmd = &cobra.Command{
	Use:   "status [clock]",
	Short: "Show the current state and report of a clock without changing it",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	c, err := e.co.Clock(e.clockName(args))
	if err != nil {
		return err
	}
	st, err := c.Status()
	if err != nil {
		return err
	}
	printStatus(e.out, c.Name(), st)
	return nil
}

func printStatus(w io.Writer, name string, st timeclock.Status) {
	now := timecalc.Now(nowClock)
	fmt.Fprintf(w, "== %s ==\n", name)
	if len(st.Entries) == 0 {
		fmt.Fprintln(w, "No time entries.")
		return
	}
	last := st.Entries.Last()
	fmt.Fprintf(w, "Clocked %s since %s (%s)\n", st.State, timecalc.Format(last), humanize.RelTime(last, now, "ago", "from now"))
	if st.DateKey != timecalc.TodayKey(nowClock) {
		fmt.Fprintf(w, "Last recorded day: %s\n", st.DateKey)
	}
	fmt.Fprintln(w, st.Entries.Report(now))
}
