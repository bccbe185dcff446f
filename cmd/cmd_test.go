package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/trivial-timeclock/internal/config"
	"github.com/Tiliavir/trivial-timeclock/internal/timecalc"
	"github.com/Tiliavir/trivial-timeclock/internal/timeclock"
)

type harness struct {
	base string
	clk  *timecalc.FixedClock
}

func newHarness(t *testing.T, start time.Time) *harness {
	t.Helper()
	home := t.TempDir()
	base := filepath.Join(home, "clocks")
	cfgPath := filepath.Join(home, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("base_dir: "+base+"\n"), 0o600))
	t.Setenv("HOME", home)
	t.Setenv(config.EnvConfigPath, cfgPath)

	h := &harness{base: base, clk: timecalc.NewFixedClock(start)}
	prev := nowClock
	nowClock = h.clk
	t.Cleanup(func() { nowClock = prev })
	return h
}

func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	baseDirFlag = ""
	verboseFlag = false
	exportFormat = "csv"
	if args == nil {
		// cobra falls back to os.Args on a nil slice.
		args = []string{}
	}

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func (h *harness) day(t *testing.T, clock, key string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(h.base, timeclock.DirPrefix+clock, key+".txt"))
	require.NoError(t, err)
	return string(data)
}

var morning = time.Date(2024, 9, 19, 8, 0, 0, 0, time.Local)

func TestToggleCommand(t *testing.T) {
	h := newHarness(t, morning)

	out, err := h.run(t)
	require.NoError(t, err)
	assert.Contains(t, out, "== main ==\nclocked IN")
	assert.True(t, strings.HasPrefix(h.day(t, "main", "240919"), "240919 08:00\n----------\n"))

	h.clk.Advance(2 * time.Hour)
	out, err = h.run(t)
	require.NoError(t, err)
	assert.Contains(t, out, "clocked OUT")
	assert.Contains(t, out, "240919 08:00 | 240919 10:00 | 2:00:00")
}

func TestToggleNamedClock(t *testing.T) {
	h := newHarness(t, morning)

	_, err := h.run(t, "work")
	require.NoError(t, err)
	h.clk.Advance(time.Hour)
	out, err := h.run(t, "side")
	require.NoError(t, err)

	assert.Contains(t, out, "== side ==")
	assert.Contains(t, out, "== work ==\n240919 08:00 | 240919 09:00 | 1:00:00")
}

func TestInOutCommands(t *testing.T) {
	h := newHarness(t, morning)

	_, err := h.run(t, "in", "work")
	require.NoError(t, err)

	_, err = h.run(t, "in", "work")
	require.Error(t, err)
	assert.ErrorIs(t, err, timeclock.ErrClockState)

	h.clk.Advance(30 * time.Minute)
	out, err := h.run(t, "in", "side")
	require.NoError(t, err)
	assert.Contains(t, out, "== work ==\nclocked OUT")
	assert.Contains(t, out, "== side ==\nclocked IN")

	h.clk.Advance(time.Hour)
	out, err = h.run(t, "out", "side")
	require.NoError(t, err)
	assert.Contains(t, out, "cumulative time:   1:00:00")

	_, err = h.run(t, "out", "side")
	assert.ErrorIs(t, err, timeclock.ErrClockState)
}

func TestStatusCommand(t *testing.T) {
	h := newHarness(t, morning)

	out, err := h.run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "No time entries.")

	_, err = h.run(t, "in")
	require.NoError(t, err)
	h.clk.Advance(3 * time.Hour)

	out, err = h.run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Clocked IN since 240919 08:00 (3 hours ago)")
	assert.Contains(t, out, "cumulative time:   3:00:00")
}

func TestClocksCommand(t *testing.T) {
	h := newHarness(t, morning)

	out, err := h.run(t, "clocks")
	require.NoError(t, err)
	assert.Contains(t, out, "No clocks found.")

	_, err = h.run(t, "in", "work")
	require.NoError(t, err)
	out, err = h.run(t, "clocks")
	require.NoError(t, err)
	assert.Contains(t, out, "work")
	assert.Contains(t, out, "IN")
	assert.Contains(t, out, "240919")
}

func TestHistoryCommand(t *testing.T) {
	h := newHarness(t, morning)
	dir := filepath.Join(h.base, timeclock.DirPrefix+"main")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "240918.txt"), []byte("240918 09:00\n240918 17:00\n"), 0o600))

	out, err := h.run(t, "history")
	require.NoError(t, err)
	assert.Equal(t, "== main ==\n240918 09:00 | 240918 17:00 | 8:00:00\n", out)
	assert.Contains(t, h.day(t, "main", "240918"), "----------\nclocked OUT")
}

func TestExportCommand(t *testing.T) {
	h := newHarness(t, morning)
	_, err := h.run(t, "in", "work")
	require.NoError(t, err)
	h.clk.Advance(45 * time.Minute)
	_, err = h.run(t, "out", "work")
	require.NoError(t, err)

	out, err := h.run(t, "export")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "clock,date,in,out,duration_minutes", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "work,240919,"))
	assert.True(t, strings.HasSuffix(lines[1], ",45"))

	out, err = h.run(t, "export", "--format", "json")
	require.NoError(t, err)
	var brackets []timeclock.Bracket
	require.NoError(t, json.Unmarshal([]byte(out), &brackets))
	require.Len(t, brackets, 1)
	assert.Equal(t, int64(45), brackets[0].Minutes)

	_, err = h.run(t, "export", "--format", "xml")
	assert.Error(t, err)
}

func TestBaseDirFlag(t *testing.T) {
	h := newHarness(t, morning)
	other := t.TempDir()

	_, err := h.run(t, "in", "--base-dir", other)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(other, timeclock.DirPrefix+"main", "240919.txt"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(h.base, timeclock.DirPrefix+"main"))
	assert.True(t, os.IsNotExist(err))
}

func TestInvalidClockNameArg(t *testing.T) {
	h := newHarness(t, morning)
	_, err := h.run(t, "in", "../escape")
	assert.Error(t, err)
}
