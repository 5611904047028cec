package logger

import (
	"iter"
	"strings"

	"github.com/MorfSet/NosTale/internal/util"
)

// ChunkSource yields raw decoded chunks from a transport. *Conn implements
// it; tests substitute scripted sources.
type ChunkSource interface {
	ReadChunk() (string, error)
}

// LineReader turns a stream of arbitrarily fragmented chunks into a lazy,
// forward-only sequence of complete delimiter-terminated lines, delimiter
// excluded. It is single-pass: once the sequence ends it stays ended, and a
// fresh reader must be created to read further (the underlying socket
// position cannot be rewound anyway).
//
// A LineReader must be driven by one goroutine at a time; the buffer is not
// synchronized.
type LineReader struct {
	src  ChunkSource
	buf  string
	done bool
}

// NewLineReader creates a reader over src with an empty buffer.
func NewLineReader(src ChunkSource) *LineReader {
	return &LineReader{src: src}
}

// Next returns the next complete line, blocking on the source as needed.
// It returns ok=false when the source is exhausted or fails; read errors are
// never surfaced distinctly, the sequence just ends. A trailing fragment
// with no delimiter is discarded, not yielded.
func (r *LineReader) Next() (line string, ok bool) {
	if r.done {
		return "", false
	}

	// A non-empty buffer already holds data from an earlier read; only hit
	// the transport when it is empty.
	chunk := r.buf
	r.buf = ""
	if chunk == "" {
		data, err := r.src.ReadChunk()
		if err != nil {
			r.done = true
			return "", false
		}
		chunk = data
	}

	// Accumulate until a delimiter shows up.
	for !strings.ContainsRune(chunk, Delim) {
		data, err := r.src.ReadChunk()
		if err != nil {
			r.done = true
			return "", false
		}
		chunk += data
	}

	// Split at the FIRST delimiter; the remainder (possibly holding further
	// complete lines) is kept for the next call.
	line, rest, _ := strings.Cut(chunk, string(Delim))
	r.buf = rest

	util.Stats.AddPacketIn()
	return line, true
}

// All ranges over the remaining lines. It shares the reader's single-pass
// state: breaking out and resuming, via All or Next, continues where the
// loop stopped.
func (r *LineReader) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		for {
			line, ok := r.Next()
			if !ok {
				return
			}
			if !yield(line) {
				return
			}
		}
	}
}
