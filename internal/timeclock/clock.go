package timeclock

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Tiliavir/trivial-timeclock/internal/model"
	"github.com/Tiliavir/trivial-timeclock/internal/storage"
	"github.com/Tiliavir/trivial-timeclock/internal/timecalc"
)

// State is the derived position of a clock.
type State int

const (
	Out State = iota
	In
)

func (s State) String() string {
	if s == In {
		return "IN"
	}
	return "OUT"
}

// Status is a clock's state together with the day that decided it.
type Status struct {
	State   State
	DateKey string
	Entries model.Entries
}

// Clock is one logical timeclock backed by its own data directory.
type Clock struct {
	name        string
	dir         string
	clk         timecalc.Clock
	minInterval time.Duration
	logger      *slog.Logger
}

// Name returns the clock's name.
func (c *Clock) Name() string { return c.name }

// Dir returns the clock's data directory.
func (c *Clock) Dir() string { return c.dir }

// Status resolves the clock's state from its most recent non-empty day,
// which need not be today.
func (c *Clock) Status() (Status, error) {
	key, entries, ok, err := storage.FindLatestEntries(c.dir)
	if err != nil {
		return Status{}, fmt.Errorf("clock %q: %w", c.name, err)
	}
	if !ok {
		return Status{State: Out}, nil
	}
	st := Status{State: Out, DateKey: key, Entries: entries}
	if entries.IsClockedIn() {
		st.State = In
	}
	return st, nil
}

// State returns In or Out.
func (c *Clock) State() (State, error) {
	st, err := c.Status()
	return st.State, err
}

// ClockIn appends the current time to today's entries. It fails with a
// StateError when the clock is already in. Clocking out other clocks is
// the Coordinator's job.
func (c *Clock) ClockIn() (string, error) {
	_, _, in, err := storage.FindLatestClockIn(c.dir)
	if err != nil {
		return "", fmt.Errorf("clock %q: %w", c.name, err)
	}
	if in {
		return "", &StateError{Clock: c.name, Op: "clock in", State: In}
	}

	now := timecalc.Now(c.clk)
	today := timecalc.DateKey(now)
	path := storage.DayFilePath(c.dir, today)
	entries, err := storage.Read(path)
	if err != nil {
		return "", err
	}
	entries = c.collapse(today, append(entries, now))
	if err := c.write(today, entries, now); err != nil {
		return "", err
	}
	c.logger.Info("clocked in", "at", timecalc.Format(now))
	return c.report(entries, now), nil
}

// ClockOut appends the current time to the open day. A session left open
// across midnight is closed at 23:59 of its day and reopened at 00:00
// today. Only one midnight is bridged; longer sessions are not split
// further.
func (c *Clock) ClockOut() (string, error) {
	key, open, in, err := storage.FindLatestClockIn(c.dir)
	if err != nil {
		return "", fmt.Errorf("clock %q: %w", c.name, err)
	}
	if !in {
		return "", &StateError{Clock: c.name, Op: "clock out", State: Out}
	}
	if key == "" || len(open) == 0 {
		return "", fmt.Errorf("clock %q: clocked in with no entries: %w", c.name, ErrInvariant)
	}

	now := timecalc.Now(c.clk)
	today := timecalc.DateKey(now)

	entries := open
	if key != today {
		closing, err := timecalc.NextMidnight(key)
		if err != nil {
			return "", err
		}
		prior := c.collapse(key, append(open, closing))
		if err := c.write(key, prior, now); err != nil {
			return "", err
		}
		c.logger.Debug("split at midnight", "day", key, "today", today)
		entries = model.Entries{timecalc.PreviousMidnight(c.clk)}
	}

	entries = c.collapse(today, append(entries, now))
	if err := c.write(today, entries, now); err != nil {
		return "", err
	}
	c.logger.Info("clocked out", "at", timecalc.Format(now))
	return c.report(entries, now), nil
}

// Days returns the clock's day keys, oldest first.
func (c *Clock) Days() ([]string, error) {
	keys, err := storage.ListDays(c.dir)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(keys)-1; i < j; i, j = i+1, j-1 {
		keys[i], keys[j] = keys[j], keys[i]
	}
	return keys, nil
}

// Refresh reads a day and writes it back, regenerating the report after
// any hand edits. It returns the day's entries.
func (c *Clock) Refresh(dateKey string) (model.Entries, error) {
	entries, err := c.read(dateKey)
	if err != nil {
		return nil, err
	}
	if err := c.write(dateKey, entries, timecalc.Now(c.clk)); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Clock) read(dateKey string) (model.Entries, error) {
	return storage.Read(storage.DayFilePath(c.dir, dateKey))
}

func (c *Clock) collapse(dateKey string, entries model.Entries) model.Entries {
	out, collapsed := entries.Collapse(c.minInterval)
	if collapsed {
		c.logger.Debug("collapsed short interval", "day", dateKey, "threshold", c.minInterval)
	}
	return out
}

func (c *Clock) write(dateKey string, entries model.Entries, now time.Time) error {
	if len(entries) == 0 {
		c.logger.Debug("removing empty day file", "day", dateKey)
	}
	return storage.Write(entries, storage.DayFilePath(c.dir, dateKey), now)
}

func (c *Clock) report(entries model.Entries, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s ==\n", c.name)
	b.WriteString(entries.Report(now))
	return b.String()
}
