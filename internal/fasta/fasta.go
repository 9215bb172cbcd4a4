package fasta

// Package fasta contains minimal helpers to parse FASTA formatted data used
// by the project. Parsing is streaming and strict about data appearing before
// the first header; everything else is kept simple and conservative.

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// maxLineSize bounds a single input line; unwrapped protein records fit easily.
const maxLineSize = 16 << 20

// FastaRecord represents a single FASTA record (header and sequence).
type FastaRecord struct {
	Header   string
	Sequence string
}

// SyntaxError reports content that is not FASTA.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Reader streams records from an underlying reader one at a time.
type Reader struct {
	sc      *bufio.Scanner
	line    int
	header  string
	started bool
	done    bool
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Reader{sc: sc}
}

// Line is the number of input lines consumed so far.
func (r *Reader) Line() int { return r.line }

// Next returns the next record, or io.EOF once the input is exhausted.
// Lines beginning with '>' denote headers; sequence lines are concatenated
// with surrounding whitespace removed. Blank lines are skipped.
func (r *Reader) Next() (FastaRecord, error) {
	if r.done {
		return FastaRecord{}, io.EOF
	}
	var seq strings.Builder
	for r.sc.Scan() {
		r.line++
		line := strings.TrimRight(r.sc.Text(), "\r")
		if strings.HasPrefix(line, ">") {
			if !r.started {
				r.started = true
				r.header = strings.TrimSpace(line[1:])
				continue
			}
			rec := FastaRecord{Header: r.header, Sequence: seq.String()}
			r.header = strings.TrimSpace(line[1:])
			return rec, nil
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !r.started {
			return FastaRecord{}, &SyntaxError{Line: r.line, Msg: "sequence data before first '>' header"}
		}
		seq.WriteString(trimmed)
	}
	r.done = true
	if err := r.sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return FastaRecord{}, &SyntaxError{Line: r.line + 1, Msg: "line exceeds maximum length"}
		}
		return FastaRecord{}, err
	}
	if !r.started {
		return FastaRecord{}, io.EOF
	}
	return FastaRecord{Header: r.header, Sequence: seq.String()}, nil
}

// ParseFasta reads all FASTA records from r.
func ParseFasta(r io.Reader) ([]FastaRecord, error) {
	fr := NewReader(r)
	var records []FastaRecord
	for {
		rec, err := fr.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
}
