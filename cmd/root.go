package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-timeclock/internal/config"
	"github.com/Tiliavir/trivial-timeclock/internal/log"
	"github.com/Tiliavir/trivial-timeclock/internal/timecalc"
	"github.com/Tiliavir/trivial-timeclock/internal/timeclock"
)

var (
	baseDirFlag string
	verboseFlag bool

	// nowClock supplies the current time; tests replace it.
	nowClock timecalc.Clock = timecalc.RealClock{}
)

var rootCmd = &cobra.Command{
	Use:   "timeclock [clock]",
	Short: "Toggle a timeclock in or out",
	Long: `timeclock is a stopwatch that works without staying open.

Each run toggles the clock between clocked in and clocked out, appending the
current time to a plain text file per day, then prints the day's report and
a one-line history of every day of every clock.

Clocking in on one clock clocks out all the others. Sessions shorter than
five minutes are dropped, so toggling twice only shows the report.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runToggle,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseDirFlag, "base-dir", "", "Directory holding the clock data directories (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log debug details to stderr")

	rootCmd.AddCommand(inCmd)
	rootCmd.AddCommand(outCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(clocksCmd)
	rootCmd.AddCommand(exportCmd)
}

// env bundles what every command needs.
type env struct {
	cfg config.Config
	co  *timeclock.Coordinator
	out io.Writer
}

// clockName returns the clock named in args or the configured default.
func (e env) clockName(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return e.cfg.DefaultClock
}

func setup(cmd *cobra.Command) (env, error) {
	cfg, err := config.Load()
	if err != nil {
		return env{}, err
	}
	if baseDirFlag != "" {
		cfg.BaseDir = baseDirFlag
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return env{}, err
	}
	if verboseFlag {
		level = slog.LevelDebug
	}
	logger := log.NewLogger(log.LoggerConfig{
		Out:   cmd.ErrOrStderr(),
		Level: level,
		JSON:  cfg.LogFormat == "json",
	})

	co, err := timeclock.NewCoordinator(timeclock.Options{
		BaseDir:     cfg.BaseDir,
		MinInterval: time.Duration(cfg.MinInterval),
		Clock:       nowClock,
		Logger:      logger,
	})
	if err != nil {
		return env{}, err
	}
	logger.Debug("loaded config", "base_dir", cfg.BaseDir, "default_clock", cfg.DefaultClock)
	return env{cfg: cfg, co: co, out: cmd.OutOrStdout()}, nil
}

func runToggle(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	res, err := e.co.Toggle(e.clockName(args))
	if err != nil {
		return err
	}
	fmt.Fprintln(e.out, res.Report)
	fmt.Fprintln(e.out)
	printHistory(e.out, res.History)
	return nil
}
