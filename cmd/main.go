package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"aaprofile/internal/config"
	"aaprofile/internal/pipeline"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// version is the program version. It can be overridden at build time with -ldflags "-X main.version=..."
var version = "0.1.0"

// timestampWriter prefixes each flushed line with an RFC3339 timestamp.
type timestampWriter struct {
	w   io.Writer
	buf bytes.Buffer
	mu  sync.Mutex
}

// Write buffers bytes until a newline is found; for each full line, write a timestamped
// line to the underlying writer. Partial lines are kept in the buffer.
func (t *timestampWriter) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n, _ := t.buf.Write(p)
	for {
		line, err := t.buf.ReadString('\n')
		if err != nil {
			// put the partial line back for the next write
			t.buf.WriteString(line)
			break
		}
		ts := time.Now().Format(time.RFC3339)
		if _, err := t.w.Write([]byte(ts + " " + line)); err != nil {
			return n, err
		}
	}
	return n, nil
}

// terminalWriter wraps an io.Writer and exposes an Fd method so libraries that
// inspect the file descriptor (for TTY detection) can work with wrapped writers.
type terminalWriter struct {
	w  io.Writer
	fd uintptr
}

func (tw *terminalWriter) Write(p []byte) (int, error) { return tw.w.Write(p) }

// Fd exposes the underlying file descriptor (e.g., os.Stderr.Fd()).
func (tw *terminalWriter) Fd() uintptr { return tw.fd }

var summaryStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#7C3AED"))

type flags struct {
	config  string
	out     string
	idLabel string
	onEmpty string
	dryRun  bool
	verbose bool
}

// newLogger builds the run logger; the returned func closes the log file, if any.
func newLogger(cfg *config.Config, verbose bool) (*log.Logger, func()) {
	var loggerOut io.Writer = os.Stderr
	var logFileHandle *os.File
	if cfg.LogFile != "" {
		if f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			// write to both stderr and file so running interactively still shows logs
			loggerOut = io.MultiWriter(os.Stderr, f)
			logFileHandle = f
		}
	}
	tw := &timestampWriter{w: loggerOut}
	termW := &terminalWriter{w: tw, fd: os.Stderr.Fd()}
	logger := log.New(termW)

	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		switch strings.ToLower(cfg.LogLevel) {
		case "debug":
			logger.SetLevel(log.DebugLevel)
		case "info", "":
			logger.SetLevel(log.InfoLevel)
		case "warn", "warning":
			logger.SetLevel(log.WarnLevel)
		case "error":
			logger.SetLevel(log.ErrorLevel)
		default:
			logger.SetLevel(log.InfoLevel)
			logger.Warn("unknown log_level in config, defaulting to info", "provided", cfg.LogLevel)
		}
	}
	if cfg.LogFile != "" && logFileHandle == nil {
		logger.Warn("log_file specified but could not be opened; logging to stderr only", "path", cfg.LogFile)
	}

	return logger, func() {
		if logFileHandle != nil {
			_ = logFileHandle.Close()
		}
	}
}

// resolveConfig loads the config file and lets flags and arguments override it.
func resolveConfig(cmd *cobra.Command, args []string, fl *flags) (*config.Config, error) {
	cfg, err := config.LoadConfig(fl.config)
	if err != nil {
		return nil, err
	}
	if len(args) > 0 {
		cfg.InputFiles = args
	}
	if cmd.Flags().Changed("out") {
		cfg.OutputCSV = fl.out
	}
	if cmd.Flags().Changed("id-label") {
		cfg.IDLabel = fl.idLabel
	}
	if cmd.Flags().Changed("on-empty") {
		cfg.OnEmpty = fl.onEmpty
	}
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	fl := &flags{}
	cmd := &cobra.Command{
		Use:   "aaprofile [flags] [file.fasta ...]",
		Short: "Compute per-record amino-acid composition for FASTA files into one CSV table",
		Long: `aaprofile reads protein FASTA files in the given order, computes the
percentage of each of the 20 canonical amino acids per record and writes all
profiles to a single CSV table keyed by a unique record identifier
(<file>_<header tokens>_<random hex>).

Input files come from the arguments or from input_files in the config file.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, args, fl)
			if err != nil {
				return err
			}
			logger, closeLog := newLogger(cfg, fl.verbose)
			defer closeLog()

			logger.Debug("loaded config", "input_files", cfg.InputFiles, "output_csv", cfg.OutputCSV, "id_label", cfg.IDLabel, "on_empty", cfg.OnEmpty, "log_file", cfg.LogFile, "log_level", cfg.LogLevel)
			logger.Info("starting aaprofile", "inputs", len(cfg.InputFiles), "output_csv", cfg.OutputCSV)

			start := time.Now()
			sum, err := pipeline.Run(cfg, pipeline.Options{Logger: logger, DryRun: fl.dryRun})
			if err != nil {
				logger.Error("run aborted", "err", err)
				return err
			}
			logger.Debug("run finished", "duration_ms", time.Since(start).Milliseconds())

			status := "written"
			if !sum.Written {
				status = "dry-run, not written"
			}
			fmt.Fprintln(cmd.OutOrStdout(), summaryStyle.Render(fmt.Sprintf(
				"files:   %d\nrecords: %d\nrows:    %d\nskipped: %d\noutput:  %s (%s)",
				sum.Files, sum.Records, sum.Rows, len(sum.Skipped), sum.Output, status)))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&fl.config, "config", "", "path to config file (json, yaml or toml); defaults to ./config.json if present")
	f.StringVarP(&fl.out, "out", "o", config.DefaultOutput, "output CSV file path (overwritten)")
	f.StringVar(&fl.idLabel, "id-label", "identifier", "header label of the identifier column")
	f.StringVar(&fl.onEmpty, "on-empty", config.OnEmptyAbort, "records without canonical residues: abort or skip")
	f.BoolVar(&fl.dryRun, "dry-run", false, "process all inputs without writing the output CSV")
	f.BoolVarP(&fl.verbose, "verbose", "v", false, "enable verbose (debug) logging")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "aaprofile:", err)
		os.Exit(1)
	}
}
