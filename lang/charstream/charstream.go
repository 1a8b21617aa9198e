// Package charstream implements a bounded, rune-aware character stream: a
// ring buffer that accepts bytes via Feed, is marked closed via Close, and
// yields Unicode code points with line/column
// tracking. It is adapted from the fast-path/slow-path UTF-8 decoding idiom
// used by mna-nenuphar's scanner (lang/scanner/scanner.go),
// generalized here to support incremental feeding of partial input.
package charstream

import (
	"errors"
	"unicode/utf8"

	"github.com/kaubo-lang/kaubo/internal/logging"
)

// ErrStreamClosed is returned by Feed after Close has been called.
var ErrStreamClosed = errors.New("charstream: stream closed")

// Result is the outcome of a peek/advance attempt.
type Result int

const (
	// Char means a code point was successfully decoded.
	Char Result = iota
	// Incomplete means more bytes are needed and the stream is still open.
	Incomplete
	// Eof means the buffer is empty and the stream is closed.
	Eof
)

// CharStream is a streaming UTF-8 decoding ring buffer.
type CharStream struct {
	buf    []byte
	read   int // read cursor into buf (in bytes)
	closed bool

	line int
	col  int

	log logging.Logger
}

// New creates a CharStream that logs malformed UTF-8 warnings to log (which
// may be nil to discard them).
func New(log logging.Logger) *CharStream {
	return &CharStream{line: 1, col: 1, log: log}
}

// Feed appends bytes to the stream. It fails if the stream has been closed.
func (cs *CharStream) Feed(b []byte) error {
	if cs.closed {
		return ErrStreamClosed
	}
	if len(b) == 0 {
		return nil
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	cs.buf = append(cs.buf, cp...)
	return nil
}

// Close marks the stream as fully fed; subsequent Feed calls fail.
func (cs *CharStream) Close() {
	cs.closed = true
}

// Closed reports whether Close has been called.
func (cs *CharStream) Closed() bool { return cs.closed }

// Line returns the current 1-based line number of the read cursor.
func (cs *CharStream) Line() int { return cs.line }

// Col returns the current 1-based column number of the read cursor.
func (cs *CharStream) Col() int { return cs.col }

// Offset returns the current byte offset of the read cursor.
func (cs *CharStream) Offset() int { return cs.read }

// TryPeek decodes the UTF-8 sequence starting offsetBytes from the read
// cursor without consuming it.
func (cs *CharStream) TryPeek(offsetBytes int) (rune, int, Result) {
	pos := cs.read + offsetBytes
	if pos >= len(cs.buf) {
		if cs.closed {
			return 0, 0, Eof
		}
		return 0, 0, Incomplete
	}

	b := cs.buf[pos:]
	if b[0] < utf8.RuneSelf {
		return rune(b[0]), 1, Char
	}

	r, size := utf8.DecodeRune(b)
	if r == utf8.RuneError && size == 1 {
		if !cs.closed && !utf8.FullRune(b) {
			// may just be a truncated multi-byte sequence awaiting more input
			return 0, 0, Incomplete
		}
		cs.warnInvalid(b[0])
		return utf8.RuneError, 1, Char
	}
	return r, size, Char
}

// TryAdvance behaves like TryPeek(0) then consumes the decoded code point,
// updating line/column tracking (a newline increments the line and resets
// the column to 1).
func (cs *CharStream) TryAdvance() (rune, Result) {
	r, size, res := cs.TryPeek(0)
	if res != Char {
		return 0, res
	}
	cs.read += size
	if r == '\n' {
		cs.line++
		cs.col = 1
	} else {
		cs.col++
	}
	return r, Char
}

func (cs *CharStream) warnInvalid(b byte) {
	if cs.log != nil {
		cs.log.Warn("invalid UTF-8 byte, substituting replacement character",
			logging.F("byte", b), logging.F("line", cs.line), logging.F("col", cs.col))
	}
}
