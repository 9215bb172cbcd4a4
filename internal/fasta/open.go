package fasta

import (
	"bufio"
	"errors"
	"io"
	"os"

	"github.com/klauspost/pgzip"
)

// file couples a (possibly decompressing) reader with the handles it owns.
type file struct {
	io.Reader
	closers []io.Closer
}

// Close releases every handle, innermost first, and reports all failures.
func (f *file) Close() error {
	var errs []error
	for i := len(f.closers) - 1; i >= 0; i-- {
		if err := f.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Open opens path for reading. Gzip input is detected by its magic bytes and
// decompressed transparently.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReader(f)
	magic, _ := br.Peek(2)
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := pgzip.NewReader(br)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		return &file{Reader: gz, closers: []io.Closer{f, gz}}, nil
	}
	return &file{Reader: br, closers: []io.Closer{f}}, nil
}
