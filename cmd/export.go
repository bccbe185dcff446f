package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-timeclock/internal/timeclock"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every closed in/out pair of every clock to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json")
}

func runExport(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	brackets, err := e.co.Brackets()
	if err != nil {
		return err
	}

	switch exportFormat {
	case "json":
		return writeJSON(e.out, brackets)
	case "csv":
		return writeCSV(e.out, brackets)
	default:
		return fmt.Errorf("unknown export format %q: use csv or json", exportFormat)
	}
}

func writeJSON(w io.Writer, brackets []timeclock.Bracket) error {
	if brackets == nil {
		brackets = []timeclock.Bracket{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(brackets); err != nil {
		return fmt.Errorf("error encoding JSON: %w", err)
	}
	return nil
}

func writeCSV(w io.Writer, brackets []timeclock.Bracket) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"clock", "date", "in", "out", "duration_minutes"})
	for _, b := range brackets {
		_ = cw.Write([]string{
			b.Clock,
			b.Date,
			b.In.Format(time.RFC3339),
			b.Out.Format(time.RFC3339),
			strconv.FormatInt(b.Minutes, 10),
		})
	}
	cw.Flush()
	return cw.Error()
}
