package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/pkg/browser"
	"github.com/sarchlab/scanrt/config"
	"github.com/sarchlab/scanrt/driver"
	"github.com/sarchlab/scanrt/logging"
	"github.com/sarchlab/scanrt/memimage"
	"github.com/sarchlab/scanrt/monitoring"
	"github.com/sarchlab/scanrt/programs"
	"github.com/sarchlab/scanrt/recording"
	"github.com/sarchlab/scanrt/scan"
	"github.com/spf13/cobra"
)

type runFlags struct {
	config     string
	program    string
	script     string
	cycles     uint64
	period     time.Duration
	logLevel   string
	monitor    bool
	port       int
	open       bool
	record     bool
	recordPath string
}

var runOpts runFlags

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a built-in program",
	Long: `Run a built-in program. Inputs come from a YAML I/O script when ` +
		`one is given and stay at zero otherwise. Flags override the config ` +
		`file, which is read after the defaults and before the SCANRT_* ` +
		`environment variables.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadRunConfig(cmd)
		if err != nil {
			return err
		}

		logger, closeLog, err := logging.New(cfg.LogOptions())
		if err != nil {
			return err
		}
		defer func() { _ = closeLog() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		return run(ctx, cfg, logger, cmd.OutOrStdout())
	},
}

func loadRunConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(runOpts.config)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()

	if flags.Changed("program") {
		cfg.Program = runOpts.program
	}

	if flags.Changed("script") {
		cfg.Script = runOpts.script
	}

	if flags.Changed("cycles") {
		cfg.MaxCycles = runOpts.cycles
	}

	if flags.Changed("period") {
		cfg.Period = runOpts.period
	}

	if flags.Changed("log-level") {
		cfg.Log.Level = runOpts.logLevel
	}

	if flags.Changed("monitor") {
		cfg.Monitor.Enabled = runOpts.monitor
	}

	if flags.Changed("port") {
		cfg.Monitor.Port = runOpts.port
		cfg.Monitor.Enabled = true
	}

	if flags.Changed("open") {
		cfg.Monitor.Open = runOpts.open
		cfg.Monitor.Enabled = cfg.Monitor.Enabled || runOpts.open
	}

	if flags.Changed("record") {
		cfg.Record.Enabled = runOpts.record
	}

	if flags.Changed("record-path") {
		cfg.Record.Path = runOpts.recordPath
		cfg.Record.Enabled = true
	}

	return cfg, cfg.Validate()
}

func run(
	ctx context.Context,
	cfg config.Config,
	logger *slog.Logger,
	out io.Writer,
) error {
	img, err := memimage.New(cfg.Layout)
	if err != nil {
		return err
	}

	prog, err := programs.Build(cfg.Program, img, logger)
	if err != nil {
		return err
	}

	drv, script, err := buildDriver(cfg, prog)
	if err != nil {
		return err
	}

	maxCycles := cfg.MaxCycles
	if maxCycles == 0 && script != nil {
		maxCycles = script.LastCycle() + 1
	}

	runner := scan.MakeRunnerBuilder().
		WithDriver(drv).
		WithPeriod(cfg.Period).
		WithMaxCycles(maxCycles).
		WithLogger(logger).
		Build(prog.Scanner)

	if cfg.Record.Enabled {
		w, err := startRecording(cfg, prog, logger)
		if err != nil {
			return err
		}

		defer func() {
			if err := w.Close(); err != nil {
				logger.Error("cannot save recording", "error", err)
			}
		}()
	}

	if cfg.Monitor.Enabled {
		if err := startMonitor(cfg, prog, runner, maxCycles, logger); err != nil {
			return err
		}
	}

	logger.Info("run started",
		"program", prog.Name,
		"period", cfg.Period,
		"max_cycles", maxCycles)

	err = runner.Run(ctx)

	logger.Info("run finished",
		"program", prog.Name,
		"cycles", prog.Scanner.Cycle())

	if script != nil {
		printTrace(out, script.Trace())
	}

	return err
}

func buildDriver(
	cfg config.Config,
	prog *programs.Program,
) (scan.Driver, *driver.ScriptDriver, error) {
	if cfg.Script == "" {
		return driver.NewMemoryDriver(cfg.Layout), nil, nil
	}

	s, err := driver.ReadScriptFile(cfg.Script)
	if err != nil {
		return nil, nil, err
	}

	d, err := driver.NewScriptDriver(s, prog.Symbols)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", cfg.Script, err)
	}

	return d, d, nil
}

func startRecording(
	cfg config.Config,
	prog *programs.Program,
	logger *slog.Logger,
) (*recording.SQLiteWriter, error) {
	w := recording.NewSQLiteWriter(cfg.Record.Path)
	if err := w.Init(); err != nil {
		return nil, err
	}

	rec, err := recording.NewRecorder(w, prog.Name, logger)
	if err != nil {
		return nil, err
	}

	rec.Attach(prog.Scanner, prog.Queues...)

	logger.Info("recording run", "file", w.Filename(), "run", rec.RunID())

	return w, nil
}

func startMonitor(
	cfg config.Config,
	prog *programs.Program,
	runner *scan.Runner,
	maxCycles uint64,
	logger *slog.Logger,
) error {
	m := monitoring.NewMonitor().
		WithLogger(logger).
		WithPortNumber(cfg.Monitor.Port)

	m.RegisterRunner(runner)
	m.RegisterSymbols(prog.Symbols)

	for _, q := range prog.Queues {
		m.RegisterQueue(q)
	}

	if maxCycles > 0 {
		m.CreateProgressBar(prog.Name, maxCycles)
	}

	url, err := m.StartServer()
	if err != nil {
		return err
	}

	if cfg.Monitor.Open {
		if err := browser.OpenURL(url); err != nil {
			logger.Warn("cannot open browser", "url", url, "error", err)
		}
	}

	return nil
}

// printTrace writes the cycles at which the outputs changed.
func printTrace(out io.Writer, trace []driver.TraceEntry) {
	var last []byte

	for _, e := range trace {
		if last != nil && string(e.Outputs) == string(last) {
			continue
		}

		fmt.Fprintf(out, "%6d  % X\n", e.Cycle, trimZeros(e.Outputs))
		last = e.Outputs
	}
}

func trimZeros(b []byte) []byte {
	n := len(b)
	for n > 1 && b[n-1] == 0 {
		n--
	}

	return b[:n]
}

func init() {
	f := runCmd.Flags()
	f.StringVarP(&runOpts.config, "config", "c", "", "YAML config file")
	f.StringVarP(&runOpts.program, "program", "p", "", "program to run")
	f.StringVarP(&runOpts.script, "script", "s", "", "YAML I/O script")
	f.Uint64VarP(&runOpts.cycles, "cycles", "n", 0,
		"stop after this many cycles, 0 runs until interrupted")
	f.DurationVar(&runOpts.period, "period", 0, "cycle period, 0 runs back to back")
	f.StringVar(&runOpts.logLevel, "log-level", "", "debug, info, warn or error")
	f.BoolVar(&runOpts.monitor, "monitor", false, "serve the web monitor")
	f.IntVar(&runOpts.port, "port", 0, "monitor port, 0 picks a free one")
	f.BoolVar(&runOpts.open, "open", false, "open the monitor in a browser")
	f.BoolVar(&runOpts.record, "record", false, "record the run to SQLite")
	f.StringVar(&runOpts.recordPath, "record-path", "",
		"recording file name without the .sqlite3 suffix")

	rootCmd.AddCommand(runCmd)
}
