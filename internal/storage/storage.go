package storage

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Tiliavir/trivial-timeclock/internal/model"
	"github.com/Tiliavir/trivial-timeclock/internal/timecalc"
)

// Delimiter separates entries from the generated report. Existing day
// files depend on it; never change it.
const Delimiter = "----------"

// FileExt is the day-file extension.
const FileExt = ".txt"

// ParseError locates a malformed entry line inside a day file.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// DayFilePath returns the path of the day file for dateKey (yymmdd) in dir.
func DayFilePath(dir, dateKey string) string {
	return filepath.Join(dir, dateKey+FileExt)
}

// Read loads the entries of one day file. A missing file has no entries.
// Blank lines are skipped and reading stops at the delimiter line.
func Read(path string) (model.Entries, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return model.Entries{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage error reading %s: %w", path, err)
	}

	entries := model.Entries{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == Delimiter {
			break
		}
		ts, err := timecalc.Parse(line)
		if err != nil {
			return nil, &ParseError{Path: path, Line: lineNo, Err: err}
		}
		entries = append(entries, ts)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("storage error scanning %s: %w", path, err)
	}
	return entries, nil
}

// Render serializes entries, the delimiter and the report for now.
func Render(entries model.Entries, now time.Time) []byte {
	lines := append(entries.Strings(), Delimiter, entries.Report(now))
	return []byte(strings.Join(lines, "\n") + "\n")
}

// Write replaces the day file with entries and a freshly generated report.
// An empty list removes the file instead.
func Write(entries model.Entries, path string, now time.Time) error {
	if len(entries) == 0 {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("storage error removing %s: %w", path, err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	// Atomic write: write to temp file then rename.
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, Render(entries, now), 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}

// ListDays returns the date keys of every day file in dir, most recent
// first. Files not named <yymmdd>.txt are ignored. A missing directory
// has no days.
func ListDays(dir string) ([]string, error) {
	dirEntries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage error listing %s: %w", dir, err)
	}

	days := map[string]time.Time{}
	var keys []string
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		name := de.Name()
		if filepath.Ext(name) != FileExt {
			continue
		}
		key := strings.TrimSuffix(name, FileExt)
		day, err := timecalc.ParseDateKey(key)
		if err != nil {
			continue
		}
		days[key] = day
		keys = append(keys, key)
	}
	// Directory order is unspecified; sort by date, not by name.
	sort.Slice(keys, func(i, j int) bool {
		return days[keys[i]].After(days[keys[j]])
	})
	return keys, nil
}

// FindLatestEntries returns the most recent day in dir whose file holds at
// least one entry. Empty day files are skipped. ok is false when no day
// has entries.
func FindLatestEntries(dir string) (dateKey string, entries model.Entries, ok bool, err error) {
	keys, err := ListDays(dir)
	if err != nil {
		return "", nil, false, err
	}
	for _, key := range keys {
		entries, err := Read(DayFilePath(dir, key))
		if err != nil {
			return "", nil, false, err
		}
		if len(entries) > 0 {
			return key, entries, true, nil
		}
	}
	return "", model.Entries{}, false, nil
}

// FindLatestClockIn is FindLatestEntries restricted to a clock that is
// currently clocked in. ok is false when the clock is out.
func FindLatestClockIn(dir string) (dateKey string, entries model.Entries, ok bool, err error) {
	dateKey, entries, ok, err = FindLatestEntries(dir)
	if err != nil {
		return "", nil, false, err
	}
	if !ok || !entries.IsClockedIn() {
		return "", model.Entries{}, false, nil
	}
	return dateKey, entries, true, nil
}
