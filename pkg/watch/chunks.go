// Package watch turns a byte stream from the API server's watch
// endpoint into a sequence of decoded events. Kubernetes' watch wire
// format is newline-delimited JSON: ChunkStream isolates the framing
// concern (splitting on '\n', buffering partial reads) and EventStream
// layers JSON decoding on top, matching the two-stage design of the
// original client's WatchStream + stream() decode step.
package watch

import (
	"bufio"
	"io"

	"k8s.io/klog/v2"
)

const separator = '\n'

// ChunkStream reads newline-delimited frames from an underlying
// io.ReadCloser. Each call to Next accumulates bytes until a separator
// is found or the stream ends; a final frame with no trailing
// separator is still emitted once the stream closes. A read error ends
// the stream without emitting the partial frame, since a truncated
// read can't be trusted to be a complete JSON document.
type ChunkStream struct {
	r      *bufio.Reader
	closer io.Closer
	err    error
	done   bool
}

// NewChunkStream wraps body, taking ownership of it -- Close closes
// the underlying body.
func NewChunkStream(body io.ReadCloser) *ChunkStream {
	return &ChunkStream{r: bufio.NewReader(body), closer: body}
}

// Next returns the next newline-delimited frame with its trailing
// separator stripped. It returns (nil, false) once the stream is
// exhausted; call Err afterward to distinguish a clean end from a
// read error.
func (c *ChunkStream) Next() ([]byte, bool) {
	if c.done {
		return nil, false
	}

	line, err := c.r.ReadBytes(separator)
	if err != nil {
		c.done = true
		if err == io.EOF {
			if len(line) > 0 {
				return line, true
			}
			return nil, false
		}
		klog.V(2).ErrorS(err, "watch stream read error, ending stream")
		c.err = err
		return nil, false
	}

	return line[:len(line)-1], true
}

// Err returns the error that ended the stream, if any.
func (c *ChunkStream) Err() error {
	return c.err
}

// Close releases the underlying body.
func (c *ChunkStream) Close() error {
	return c.closer.Close()
}
