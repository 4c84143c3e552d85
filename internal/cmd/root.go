package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/utkarsh5026/bootfactory/factory"
	"github.com/utkarsh5026/bootfactory/internal/config"
	"github.com/utkarsh5026/bootfactory/internal/logging"
	"github.com/utkarsh5026/bootfactory/internal/render"
)

// flagKeys maps command line flags to the config keys they override.
var flagKeys = map[string]string{
	"unit":       "work.unit",
	"strategy":   "work.strategy",
	"durations":  "work.durations",
	"target":     "work.target",
	"rate":       "work.rate_per_second",
	"burst":      "work.burst",
	"pin-cpu":    "work.pin_cpu",
	"for":        "reporter.run_for",
	"label":      "output.label",
	"progress":   "output.progress",
	"summary":    "output.summary",
	"log-level":  "logging.level",
	"log-format": "logging.format",
	"log-file":   "logging.file",
}

// Execute runs the root command until it finishes or the process receives
// SIGINT or SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return NewRootCommand(os.Stdout, os.Stderr).ExecuteContext(ctx)
}

// NewRootCommand builds the bootfactory command. Samples go to stdout; the
// summary table and cobra's own messages go to stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bootfactory [workers]",
		Short: "Run N workers against a shared counter with a periodic reporter",
		Long: `bootfactory starts a number of workers (default 1) that each repeatedly
spend a random 1, 3 or 5 seconds making a boot, and a reporter that prints the
running total once a second:

    seconds: 3.00 boots: 2

The reporter corrects its own drift so timestamps stay on whole seconds.
The run continues until interrupted, until --for elapses, or until --target
boots have been made.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, stdout)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/bootfactory/config.yaml)")

	flags := cmd.Flags()
	flags.Duration("unit", time.Second, "wall-clock length of one time unit")
	flags.String("strategy", "random", "how work durations are drawn: random, fixed or sequence")
	flags.StringSlice("durations", []string{"1", "3", "5"}, "work durations in units")
	flags.Int64("target", 0, "stop after this many units (0 = run until stopped)")
	flags.Float64("rate", 0, "max units started per second across all workers (0 = unlimited)")
	flags.Int("burst", 1, "rate limiter burst size")
	flags.Bool("pin-cpu", false, "pin each worker to its own OS thread and core")
	flags.Duration("for", 0, "stop after this long (0 = run until stopped)")
	flags.Bool("naive", false, "sleep a fixed interval in the reporter and let drift accumulate")
	flags.String("label", "boots", "name of the counted thing in the output")
	flags.Bool("no-color", false, "disable colored output")
	flags.Bool("progress", false, "show a progress bar toward --target instead of lines")
	flags.Bool("summary", true, "print a per-worker table when the run ends")
	flags.String("log-level", logging.LevelWarn, "log level: DEBUG, INFO, WARN, ERROR")
	flags.String("log-format", logging.FormatText, "log format: text or json")
	flags.String("log-file", "", "write logs to this file instead of stderr")

	bindFlags(flags)
	return cmd
}

func bindFlags(flags *pflag.FlagSet) {
	for name, key := range flagKeys {
		_ = viper.BindPFlag(key, flags.Lookup(name))
	}
}

func initConfig(cmd *cobra.Command) error {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	// A missing .env file is the common case
	_ = godotenv.Load()

	cfgFile, _ := cmd.Flags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("$HOME/.config/bootfactory")
		viper.AddConfigPath(".")
	}

	config.BindEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

func run(cmd *cobra.Command, args []string, stdout io.Writer) error {
	if len(args) == 1 {
		workers, err := strconv.Atoi(strings.TrimSpace(args[0]))
		if err != nil {
			return fmt.Errorf("%w: workers must be an integer (got %q)", factory.ErrInvalidConfig, args[0])
		}
		viper.Set("workers", workers)
	}
	if naive, _ := cmd.Flags().GetBool("naive"); naive {
		viper.Set("reporter.drift_correction", false)
	}
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		viper.Set("output.color", false)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.Open(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	ctx := cmd.Context()
	if cfg.Reporter.RunFor > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Reporter.RunFor)
		defer cancel()
	}

	var sink factory.Sink
	var progress *render.ProgressSink
	if cfg.Output.Progress {
		progress = render.NewProgressSink(stdout, cfg.Output.Label, cfg.Work.Target, cfg.Output.Color)
		sink = progress
	} else {
		sink = render.NewLineSink(stdout, cfg.Output.Label, cfg.Output.Color)
	}

	opts, err := cfg.FactoryOptions()
	if err != nil {
		return err
	}
	opts = append(opts, factory.WithSink(sink), factory.WithLogger(logger))

	sup, err := factory.New(opts...)
	if err != nil {
		return err
	}

	runErr := sup.Run(ctx)

	if progress != nil {
		_ = progress.Finish()
		_, _ = fmt.Fprintln(stdout)
	}
	if cfg.Output.Summary {
		render.WriteSummary(cmd.ErrOrStderr(), sup.Stats(), sup.Counter().Read(), sup.Elapsed())
	}

	return runErr
}
