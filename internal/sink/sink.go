// Package sink implements the dump's sequential byte sink: open once,
// write many times in order, close once. A sink variant must never
// require the dump engine to buffer a table's worth of output before
// writing it.
package sink

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

// Compression selects a Sink variant. None is the only variant the spec
// mandates; Gzip is this repository's one concrete codec behind the
// abstract interface.
type Compression string

const (
	None Compression = "none"
	Gzip Compression = "gzip"
)

// Sink is a sequential byte destination with matched open/close. Write
// must be called only between Open and Close.
type Sink interface {
	io.Writer
	Close() error
}

// Open opens a Sink at path using the requested compression variant. An
// empty path selects standard output (the output-file "standard-output
// sentinel" of §6) and is never compressed, matching the CLI convention of
// streaming uncompressed text when the destination is a pipe.
func Open(path string, compression Compression) (Sink, error) {
	if path == "" {
		return &plainSink{w: bufio.NewWriter(os.Stdout), closer: func() error { return nil }}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("sink: open %q: %w", path, err)
	}

	switch compression {
	case "", None:
		return &plainSink{w: bufio.NewWriter(f), closer: f.Close}, nil
	case Gzip:
		gz := gzip.NewWriter(f)
		bw := bufio.NewWriter(gz)
		return &plainSink{
			w: bw,
			closer: func() error {
				if err := gz.Close(); err != nil {
					_ = f.Close()
					return err
				}
				return f.Close()
			},
		}, nil
	default:
		_ = f.Close()
		return nil, fmt.Errorf("sink: unknown compression variant %q", compression)
	}
}

// plainSink wraps a buffered writer and a closer that must flush the
// buffer before releasing the underlying resource.
type plainSink struct {
	w      *bufio.Writer
	closer func() error
}

func (s *plainSink) Write(p []byte) (int, error) {
	return s.w.Write(p)
}

func (s *plainSink) Close() error {
	if err := s.w.Flush(); err != nil {
		_ = s.closer()
		return fmt.Errorf("sink: flush: %w", err)
	}
	return s.closer()
}
