// Package timeclock turns day files into clocked-in/out state transitions
// and keeps several named clocks mutually exclusive.
package timeclock

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/Tiliavir/trivial-timeclock/internal/log"
	"github.com/Tiliavir/trivial-timeclock/internal/model"
	"github.com/Tiliavir/trivial-timeclock/internal/timecalc"
)

// DirPrefix prefixes every clock's data directory name under the base
// location.
const DirPrefix = "timeclock_data_"

var validName = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Options configures a Coordinator. Zero values take defaults.
type Options struct {
	// BaseDir holds the clock data directories. Required.
	BaseDir string
	// MinInterval is the short-interval collapse threshold.
	MinInterval time.Duration
	// Clock supplies the current time.
	Clock timecalc.Clock
	// Logger receives debug records of transitions.
	Logger *slog.Logger
}

// Coordinator owns every clock under one base location.
type Coordinator struct {
	base        string
	clk         timecalc.Clock
	minInterval time.Duration
	logger      *slog.Logger
}

// DayHistory is the summary of one day of one clock.
type DayHistory struct {
	DateKey string
	Entries model.Entries
	Summary string
}

// ClockHistory groups a clock's day summaries, oldest first.
type ClockHistory struct {
	Clock string
	Days  []DayHistory
}

// String renders the clock name followed by one summary line per day.
func (h ClockHistory) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s ==", h.Clock)
	for _, d := range h.Days {
		b.WriteString("\n")
		b.WriteString(d.Summary)
	}
	return b.String()
}

// ToggleResult is the outcome of Toggle.
type ToggleResult struct {
	Clock   string
	State   State
	Report  string
	History []ClockHistory
}

// NewCoordinator validates opts and returns a Coordinator.
func NewCoordinator(opts Options) (*Coordinator, error) {
	if opts.BaseDir == "" {
		return nil, errors.New("timeclock: base directory is required")
	}
	if opts.MinInterval == 0 {
		opts.MinInterval = 5 * time.Minute
	}
	if opts.Clock == nil {
		opts.Clock = timecalc.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = log.NewNopLogger()
	}
	return &Coordinator{
		base:        opts.BaseDir,
		clk:         opts.Clock,
		minInterval: opts.MinInterval,
		logger:      opts.Logger,
	}, nil
}

// Clock returns the named clock. Its directory is created on first write.
func (co *Coordinator) Clock(name string) (*Clock, error) {
	if !validName.MatchString(name) {
		return nil, fmt.Errorf("invalid clock name %q: use letters, digits, '-' or '_'", name)
	}
	return &Clock{
		name:        name,
		dir:         filepath.Join(co.base, DirPrefix+name),
		clk:         co.clk,
		minInterval: co.minInterval,
		logger:      co.logger.With("clock", name),
	}, nil
}

// Clocks lists every clock directory under the base location, sorted by
// name.
func (co *Coordinator) Clocks() ([]*Clock, error) {
	dirEntries, err := os.ReadDir(co.base)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing clocks in %s: %w", co.base, err)
	}
	var names []string
	for _, de := range dirEntries {
		if !de.IsDir() || !strings.HasPrefix(de.Name(), DirPrefix) {
			continue
		}
		name := strings.TrimPrefix(de.Name(), DirPrefix)
		if validName.MatchString(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	clocks := make([]*Clock, 0, len(names))
	for _, name := range names {
		c, err := co.Clock(name)
		if err != nil {
			return nil, err
		}
		clocks = append(clocks, c)
	}
	return clocks, nil
}

// ClockIn clocks out every other clock, then clocks in the named one.
func (co *Coordinator) ClockIn(name string) (string, error) {
	c, err := co.Clock(name)
	if err != nil {
		return "", err
	}
	// Check first so a failed clock-in leaves other clocks untouched.
	st, err := c.State()
	if err != nil {
		return "", err
	}
	if st == In {
		return "", &StateError{Clock: name, Op: "clock in", State: In}
	}
	if _, err := co.ClockOutAll(name); err != nil {
		return "", err
	}
	return c.ClockIn()
}

// ClockOut clocks out the named clock.
func (co *Coordinator) ClockOut(name string) (string, error) {
	c, err := co.Clock(name)
	if err != nil {
		return "", err
	}
	return c.ClockOut()
}

// ClockOutAll clocks out every clock except the named one, returning the
// reports of the clocks it closed. Clocks already out are skipped.
func (co *Coordinator) ClockOutAll(except string) ([]string, error) {
	clocks, err := co.Clocks()
	if err != nil {
		return nil, err
	}
	var reports []string
	for _, c := range clocks {
		if c.Name() == except {
			continue
		}
		report, err := c.ClockOut()
		if errors.Is(err, ErrClockState) {
			continue
		}
		if err != nil {
			return reports, err
		}
		co.logger.Debug("forced clock out", "clock", c.Name(), "for", except)
		reports = append(reports, report)
	}
	return reports, nil
}

// History rewrites every day file of every clock and collects one summary
// per day, grouped by clock.
func (co *Coordinator) History() ([]ClockHistory, error) {
	clocks, err := co.Clocks()
	if err != nil {
		return nil, err
	}
	now := timecalc.Now(co.clk)
	out := make([]ClockHistory, 0, len(clocks))
	for _, c := range clocks {
		keys, err := c.Days()
		if err != nil {
			return nil, err
		}
		h := ClockHistory{Clock: c.Name()}
		for _, key := range keys {
			entries, err := c.Refresh(key)
			if err != nil {
				return nil, err
			}
			h.Days = append(h.Days, DayHistory{
				DateKey: key,
				Entries: entries,
				Summary: entries.Summary(key, now),
			})
		}
		out = append(out, h)
	}
	return out, nil
}

// Toggle clocks the named clock in when it is out and out when it is in,
// then gathers the history of every clock.
func (co *Coordinator) Toggle(name string) (ToggleResult, error) {
	c, err := co.Clock(name)
	if err != nil {
		return ToggleResult{}, err
	}
	st, err := c.State()
	if err != nil {
		return ToggleResult{}, err
	}

	res := ToggleResult{Clock: name}
	switch st {
	case Out:
		res.Report, err = co.ClockIn(name)
		res.State = In
	case In:
		res.Report, err = c.ClockOut()
		res.State = Out
	}
	if err != nil {
		return ToggleResult{}, err
	}

	res.History, err = co.History()
	if err != nil {
		return ToggleResult{}, err
	}
	return res, nil
}

// Bracket is one closed in/out pair of one clock.
type Bracket struct {
	Clock   string    `json:"clock"`
	Date    string    `json:"date"`
	In      time.Time `json:"in"`
	Out     time.Time `json:"out"`
	Minutes int64     `json:"minutes"`
}

// Brackets returns every closed bracket of every clock, oldest first
// within each clock. Open sessions are left out.
func (co *Coordinator) Brackets() ([]Bracket, error) {
	clocks, err := co.Clocks()
	if err != nil {
		return nil, err
	}
	var out []Bracket
	for _, c := range clocks {
		keys, err := c.Days()
		if err != nil {
			return nil, err
		}
		for _, key := range keys {
			entries, err := c.read(key)
			if err != nil {
				return nil, err
			}
			for _, b := range entries.Brackets() {
				out = append(out, Bracket{
					Clock:   c.Name(),
					Date:    key,
					In:      b.In,
					Out:     b.Out,
					Minutes: int64(b.Duration() / time.Minute),
				})
			}
		}
	}
	return out, nil
}
