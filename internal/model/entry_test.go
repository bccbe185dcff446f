package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/trivial-timeclock/internal/model"
	"github.com/Tiliavir/trivial-timeclock/internal/timecalc"
)

func entries(t *testing.T, values ...string) model.Entries {
	t.Helper()
	out := make(model.Entries, 0, len(values))
	for _, v := range values {
		ts, err := timecalc.Parse(v)
		require.NoError(t, err)
		out = append(out, ts)
	}
	return out
}

func at(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := timecalc.Parse(value)
	require.NoError(t, err)
	return ts
}

func TestIsClockedIn(t *testing.T) {
	tests := []struct {
		values []string
		want   bool
	}{
		{nil, false},
		{[]string{"240919 13:45"}, true},
		{[]string{"240919 13:45", "240919 14:45"}, false},
		{[]string{"240919 13:45", "240919 14:45", "240919 15:45"}, true},
	}
	for _, tt := range tests {
		e := entries(t, tt.values...)
		assert.Equal(t, tt.want, e.IsClockedIn(), "IsClockedIn(%v)", tt.values)
		assert.Equal(t, len(e)%2 == 1, e.IsClockedIn())
	}
}

func TestBrackets(t *testing.T) {
	e := entries(t, "240919 08:00", "240919 09:00", "240919 10:00")
	brackets := e.Brackets()
	require.Len(t, brackets, 1)
	assert.Equal(t, time.Hour, brackets[0].Duration())

	assert.Empty(t, model.Entries{}.Brackets())
}

func TestCumulativeDurationClosed(t *testing.T) {
	e := entries(t, "240919 13:45", "240919 14:45", "240919 15:45", "240919 16:45")
	// now must not matter for an even list.
	now := at(t, "240920 09:00")
	assert.Equal(t, 2*time.Hour, e.CumulativeDuration(now))
	assert.Len(t, e, 4)
}

func TestCumulativeDurationOpen(t *testing.T) {
	e := entries(t, "240919 08:00", "240919 09:00", "240919 10:00")
	now := at(t, "240919 10:30")
	assert.Equal(t, 90*time.Minute, e.CumulativeDuration(now))
	assert.Len(t, e, 3, "stored entries must not gain the synthetic clock-out")
}

func TestCumulativeDurationEmpty(t *testing.T) {
	assert.Equal(t, time.Duration(0), model.Entries{}.CumulativeDuration(at(t, "240919 10:30")))
}

func TestVirtualClockOut(t *testing.T) {
	e := entries(t, "240919 08:00", "240919 10:00", "240919 13:00", "240919 14:30")
	got := e.VirtualClockOut(at(t, "240919 18:00"))
	assert.Equal(t, "240919 11:30", timecalc.Format(got))
}

func TestCollapse(t *testing.T) {
	before := entries(t, "240919 08:00", "240919 12:00")

	short := append(append(model.Entries{}, before...), at(t, "240919 12:04"))
	short = append(short, at(t, "240919 12:08"))
	got, collapsed := short.Collapse(5 * time.Minute)
	assert.True(t, collapsed)
	assert.True(t, got.Equal(before), "got %v want %v", got.Strings(), before.Strings())

	long := append(append(model.Entries{}, before...), at(t, "240919 12:05"))
	got, collapsed = long.Collapse(5 * time.Minute)
	assert.False(t, collapsed, "exactly the threshold is kept")
	assert.Len(t, got, 3)

	// A just-reopened clock within the threshold resumes the prior bracket.
	resumed := append(append(model.Entries{}, before...), at(t, "240919 12:02"))
	got, collapsed = resumed.Collapse(5 * time.Minute)
	assert.True(t, collapsed)
	assert.Equal(t, []string{"240919 08:00"}, got.Strings())

	single := entries(t, "240919 08:00")
	got, collapsed = single.Collapse(5 * time.Minute)
	assert.False(t, collapsed)
	assert.Len(t, got, 1)
}

func TestCollapseDoesNotAliasTail(t *testing.T) {
	e := entries(t, "240919 08:00", "240919 08:01")
	got, collapsed := e.Collapse(5 * time.Minute)
	require.True(t, collapsed)
	got = append(got, at(t, "240919 09:00"))
	assert.Equal(t, "240919 08:00", timecalc.Format(e[0]))
	assert.Len(t, got, 1)
}

func TestReport(t *testing.T) {
	e := entries(t, "240919 08:00", "240919 10:00", "240919 13:00", "240919 14:30")
	want := "clocked OUT        240919 14:30\n" +
		"initial clock in:  240919 08:00\n" +
		"cumulative time:   3:30:00\n" +
		"virtual clock out: 240919 11:30"
	assert.Equal(t, want, e.Report(at(t, "240919 20:00")))
}

func TestReportOpen(t *testing.T) {
	e := entries(t, "240919 08:00")
	report := e.Report(at(t, "240919 09:15"))
	assert.Contains(t, report, "clocked IN         240919 08:00")
	assert.Contains(t, report, "cumulative time:   1:15:00")
	assert.Contains(t, report, "virtual clock out: 240919 09:15")
}

func TestReportEmpty(t *testing.T) {
	assert.Equal(t, model.NoEntries, model.Entries{}.Report(at(t, "240919 09:15")))
}

func TestSummary(t *testing.T) {
	e := entries(t, "240919 08:00", "240919 10:00")
	assert.Equal(t, "240919 08:00 | 240919 10:00 | 2:00:00", e.Summary("240919", at(t, "240920 00:00")))
	assert.Equal(t, "240919 | no time entries", model.Entries{}.Summary("240919", at(t, "240920 00:00")))
}
