package ingest

// Package ingest walks an ordered list of FASTA files and yields their
// records lazily, one at a time, tagged with where they came from.

import (
	"errors"
	"fmt"
	"io"
	"iter"

	"aaprofile/internal/fasta"

	"github.com/charmbracelet/log"
)

// Item is one parsed record together with its origin.
type Item struct {
	Record fasta.FastaRecord
	// File is the path as given by the caller.
	File string
	// Position is the 1-based record number within File.
	Position int
}

// InputAccessError reports an input file that cannot be opened or read.
type InputAccessError struct {
	File string
	Err  error
}

func (e *InputAccessError) Error() string {
	return fmt.Sprintf("cannot read input %s: %v", e.File, e.Err)
}

func (e *InputAccessError) Unwrap() error { return e.Err }

// ParseError reports a file whose content is not valid FASTA.
type ParseError struct {
	File     string
	Position int // record being read when parsing failed
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid FASTA in %s (record %d): %v", e.File, e.Position, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Ingestor reads FASTA inputs. The zero value is usable and logs nothing.
type Ingestor struct {
	Logger *log.Logger
	// Open is used to open inputs; defaults to fasta.Open.
	Open func(path string) (io.ReadCloser, error)
}

// Ingest yields every record of every file, files in the given order and
// records in physical order. Iteration stops after the first error. Each file
// is closed before the next one is opened, whether or not reading succeeded.
func (in *Ingestor) Ingest(files []string) iter.Seq2[Item, error] {
	return func(yield func(Item, error) bool) {
		for _, name := range files {
			if !in.file(name, yield) {
				return
			}
		}
	}
}

// file streams one input; it reports whether iteration should continue.
func (in *Ingestor) file(name string, yield func(Item, error) bool) bool {
	logger := in.logger()
	open := in.Open
	if open == nil {
		open = fasta.Open
	}
	rc, err := open(name)
	if err != nil {
		yield(Item{}, &InputAccessError{File: name, Err: err})
		return false
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil {
			logger.Warn("failed to close input", "path", name, "err", cerr)
		}
	}()

	logger.Debug("reading input", "path", name)
	r := fasta.NewReader(rc)
	pos := 0
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			var se *fasta.SyntaxError
			if errors.As(err, &se) {
				yield(Item{}, &ParseError{File: name, Position: pos + 1, Err: err})
			} else {
				yield(Item{}, &InputAccessError{File: name, Err: err})
			}
			return false
		}
		pos++
		if !yield(Item{Record: rec, File: name, Position: pos}, nil) {
			return false
		}
	}
	if pos == 0 {
		logger.Warn("input contains no FASTA records", "path", name)
	}
	logger.Debug("finished input", "path", name, "records", pos)
	return true
}

func (in *Ingestor) logger() *log.Logger {
	if in.Logger == nil {
		return log.New(io.Discard)
	}
	return in.Logger
}
