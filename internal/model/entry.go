package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/Tiliavir/trivial-timeclock/internal/timecalc"
)

// NoEntries is reported in place of a report for a day without entries.
const NoEntries = "no time entries"

// Entries is one day's ordered list of clock boundaries. Even indexes are
// clock-ins, odd indexes are clock-outs.
type Entries []time.Time

// Bracket is a clock-in paired with the following clock-out.
type Bracket struct {
	In  time.Time `json:"in"`
	Out time.Time `json:"out"`
}

// Duration returns the time between In and Out.
func (b Bracket) Duration() time.Duration {
	return b.Out.Sub(b.In)
}

// IsClockedIn reports whether the list ends on a clock-in.
func (e Entries) IsClockedIn() bool {
	return len(e)%2 == 1
}

// Last returns the final entry. It panics on an empty list.
func (e Entries) Last() time.Time {
	return e[len(e)-1]
}

// Brackets pairs entries 0-1, 2-3, ... A trailing unpaired clock-in is
// left out.
func (e Entries) Brackets() []Bracket {
	brackets := make([]Bracket, 0, len(e)/2)
	for i := 0; i+1 < len(e); i += 2 {
		brackets = append(brackets, Bracket{In: e[i], Out: e[i+1]})
	}
	return brackets
}

// CumulativeDuration sums all brackets after appending now as a
// synthetic clock-out. The receiver is not modified.
func (e Entries) CumulativeDuration(now time.Time) time.Duration {
	live := make(Entries, 0, len(e)+1)
	live = append(live, e...)
	live = append(live, now)

	var total time.Duration
	for _, b := range live.Brackets() {
		total += b.Duration()
	}
	return total
}

// VirtualClockOut is the first clock-in plus the cumulative duration: when
// the day would have ended had it been worked without interruption.
// Callers must not pass an empty list.
func (e Entries) VirtualClockOut(now time.Time) time.Time {
	return e[0].Add(e.CumulativeDuration(now))
}

// Collapse drops the last two entries when they are less than threshold
// apart, restoring the state before the last toggle.
func (e Entries) Collapse(threshold time.Duration) (Entries, bool) {
	n := len(e)
	if n < 2 {
		return e, false
	}
	if e[n-1].Sub(e[n-2]) < threshold {
		return e[:n-2:n-2], true
	}
	return e, false
}

// Strings renders every entry in the day-file timestamp format.
func (e Entries) Strings() []string {
	out := make([]string, len(e))
	for i, t := range e {
		out[i] = timecalc.Format(t)
	}
	return out
}

// Equal reports whether both lists hold the same instants in order.
func (e Entries) Equal(other Entries) bool {
	if len(e) != len(other) {
		return false
	}
	for i := range e {
		if !e[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// State returns "IN" or "OUT".
func (e Entries) State() string {
	if e.IsClockedIn() {
		return "IN"
	}
	return "OUT"
}

// Report renders the multi-line block written below the day-file delimiter.
func (e Entries) Report(now time.Time) string {
	if len(e) == 0 {
		return NoEntries
	}
	var b strings.Builder
	fmt.Fprintf(&b, "clocked %-3s        %s\n", e.State(), timecalc.Format(e.Last()))
	fmt.Fprintf(&b, "initial clock in:  %s\n", timecalc.Format(e[0]))
	fmt.Fprintf(&b, "cumulative time:   %s\n", timecalc.FormatDurationClock(e.CumulativeDuration(now)))
	fmt.Fprintf(&b, "virtual clock out: %s", timecalc.Format(e.VirtualClockOut(now)))
	return b.String()
}

// Summary renders a single "in | virtual out | duration" line for a day.
func (e Entries) Summary(dateKey string, now time.Time) string {
	if len(e) == 0 {
		return fmt.Sprintf("%s | %s", dateKey, NoEntries)
	}
	return fmt.Sprintf("%s | %s | %s",
		timecalc.Format(e[0]),
		timecalc.Format(e.VirtualClockOut(now)),
		timecalc.FormatDurationClock(e.CumulativeDuration(now)),
	)
}
