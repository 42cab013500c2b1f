package dump

import (
	"fmt"
	"io"
)

// writer wraps the sink with the "sticky first error" pattern (as used by
// bufio.Writer and text/tabwriter): once a write fails, every subsequent
// call becomes a no-op so call sites don't need an if-err-return after
// every single line. Callers check the accumulated w.err once after a
// sequence of writes, not after each individual call.
type writer struct {
	w   io.Writer
	err error
}

func newWriter(w io.Writer) *writer {
	return &writer{w: w}
}

func (w *writer) str(s string) {
	if w.err != nil {
		return
	}
	if _, err := io.WriteString(w.w, s); err != nil {
		w.err = sinkErr("", err)
	}
}

func (w *writer) printf(format string, args ...any) {
	if w.err != nil {
		return
	}
	if _, err := fmt.Fprintf(w.w, format, args...); err != nil {
		w.err = sinkErr("", err)
	}
}

// comment writes a "-- " prefixed comment line, suppressed entirely when
// skipComments is set.
func (w *writer) comment(skipComments bool, s string) {
	if skipComments {
		return
	}
	w.str("-- ")
	w.str(s)
	w.str("\n")
}

func (w *writer) blankLine() {
	w.str("\n")
}
