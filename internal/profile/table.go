package profile

// Package profile aggregates per-record composition profiles into a single
// rectangular table with a fixed column schema and reads/writes it as CSV.

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"aaprofile/internal/composition"
)

// DefaultIDLabel heads the identifier column.
const DefaultIDLabel = "identifier"

// Row is one record: its identifier and composition profile.
type Row struct {
	ID      string
	Profile composition.Profile
}

// Table holds rows in insertion order. Columns are the identifier followed by
// composition.Alphabet, in that order, for every row.
type Table struct {
	IDLabel string
	rows    []Row
}

// NewTable returns an empty table whose identifier column is labelled label.
func NewTable(label string) *Table {
	if label == "" {
		label = DefaultIDLabel
	}
	return &Table{IDLabel: label}
}

// Append adds a row at the end. Identifiers are unique by construction, so no
// duplicate check is made.
func (t *Table) Append(id string, p composition.Profile) {
	t.rows = append(t.rows, Row{ID: id, Profile: p})
}

// Len is the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Rows returns the rows in insertion order. The slice must not be modified.
func (t *Table) Rows() []Row { return t.rows }

// Header returns the column names.
func (t *Table) Header() []string {
	h := make([]string, 0, composition.Size+1)
	h = append(h, t.IDLabel)
	for i := 0; i < composition.Size; i++ {
		h = append(h, composition.Alphabet[i:i+1])
	}
	return h
}

// WriteCSV writes the header row followed by one row per record.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header()); err != nil {
		return err
	}
	rec := make([]string, composition.Size+1)
	for _, r := range t.rows {
		rec[0] = r.ID
		for i, v := range r.Profile.Values() {
			rec[i+1] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Save writes the table to path, replacing any existing file. A failure to
// close the file is reported, joined after any write error.
func (t *Table) Save(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close output %s: %w", path, cerr))
		}
	}()
	if err := t.WriteCSV(f); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	return nil
}

// ReadCSV parses a table previously produced by WriteCSV.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = composition.Size + 1
	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("empty profile table")
	}
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(header); i++ {
		if header[i] != composition.Alphabet[i-1:i] {
			return nil, fmt.Errorf("column %d: expected %q, got %q", i+1, composition.Alphabet[i-1:i], header[i])
		}
	}
	t := NewTable(header[0])
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			return t, nil
		}
		if err != nil {
			return nil, err
		}
		var values [composition.Size]float64
		for i := range values {
			v, err := strconv.ParseFloat(rec[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d column %s: %w", line, header[i+1], err)
			}
			values[i] = v
		}
		t.Append(rec[0], composition.NewProfile(values))
	}
}

// Load reads a table from path.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return t, nil
}
