package pipeline

// Package pipeline runs one sequential pass: every input record is profiled,
// given an identifier and appended to the result table, which is written
// once at the end.

import (
	"errors"
	"fmt"
	"io"

	"aaprofile/internal/composition"
	"aaprofile/internal/config"
	"aaprofile/internal/identifier"
	"aaprofile/internal/ingest"
	"aaprofile/internal/profile"

	"github.com/charmbracelet/log"
)

// RecordError locates a per-record failure.
type RecordError struct {
	File     string
	Position int
	Header   string
	Err      error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s record %d (%q): %v", e.File, e.Position, e.Header, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// Options carries the collaborators of a run. Zero values pick defaults.
type Options struct {
	Logger *log.Logger
	Tokens identifier.TokenSource
	// Open overrides how inputs are opened.
	Open func(path string) (io.ReadCloser, error)
	// DryRun builds the table but does not write it.
	DryRun bool
}

// Summary describes a completed run.
type Summary struct {
	Files   int
	Records int
	Rows    int
	Skipped []*RecordError
	Output  string
	Written bool
	Table   *profile.Table
}

// Run executes the pipeline described by cfg. Input and parse errors abort
// before anything is written. Records without canonical residues abort or are
// skipped according to cfg.OnEmpty.
func Run(cfg *config.Config, opts Options) (*Summary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	tokens := opts.Tokens
	if tokens == nil {
		tokens = identifier.UUIDSource{}
	}

	in := &ingest.Ingestor{Logger: logger, Open: opts.Open}
	table := profile.NewTable(cfg.IDLabel)
	sum := &Summary{Files: len(cfg.InputFiles), Output: cfg.OutputCSV, Table: table}

	for item, err := range in.Ingest(cfg.InputFiles) {
		if err != nil {
			return nil, err
		}
		sum.Records++
		p, err := composition.Compute(item.Record.Sequence)
		if err != nil {
			rerr := &RecordError{File: item.File, Position: item.Position, Header: item.Record.Header, Err: err}
			if errors.Is(err, composition.ErrEmptyComposition) && cfg.OnEmpty == config.OnEmptySkip {
				logger.Warn("skipping record without canonical residues", "path", item.File, "record", item.Position, "header", item.Record.Header)
				sum.Skipped = append(sum.Skipped, rerr)
				continue
			}
			return nil, rerr
		}
		id, err := identifier.Synthesize(item.File, item.Record.Header, tokens)
		if err != nil {
			return nil, &RecordError{File: item.File, Position: item.Position, Header: item.Record.Header, Err: err}
		}
		table.Append(id, p)
		logger.Debug("profiled record", "id", id, "residues", len(item.Record.Sequence))
	}
	sum.Rows = table.Len()

	if opts.DryRun {
		logger.Info("dry-run: would write output CSV", "path", cfg.OutputCSV, "rows", sum.Rows)
		return sum, nil
	}
	if err := table.Save(cfg.OutputCSV); err != nil {
		return nil, err
	}
	sum.Written = true
	logger.Info("wrote output CSV", "path", cfg.OutputCSV, "rows", sum.Rows, "skipped", len(sum.Skipped))
	return sum, nil
}
