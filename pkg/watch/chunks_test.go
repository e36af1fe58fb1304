package watch

import (
	"io"
	"strings"
	"testing"
)

type stringReadCloser struct {
	io.Reader
}

func (stringReadCloser) Close() error { return nil }

func newBody(s string) io.ReadCloser {
	return stringReadCloser{strings.NewReader(s)}
}

func TestChunkStreamSplitsOnNewline(t *testing.T) {
	cs := NewChunkStream(newBody("apple\nbanana\ngrape\n"))

	var got []string
	for {
		chunk, ok := cs.Next()
		if !ok {
			break
		}
		got = append(got, string(chunk))
	}

	if err := cs.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"apple", "banana", "grape"}
	if len(got) != len(want) {
		t.Fatalf("got %d chunks, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestChunkStreamEmitsTrailingPartialFrame(t *testing.T) {
	cs := NewChunkStream(newBody("apple\nbanana"))

	var got []string
	for {
		chunk, ok := cs.Next()
		if !ok {
			break
		}
		got = append(got, string(chunk))
	}

	want := []string{"apple", "banana"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestChunkStreamEmptyInput(t *testing.T) {
	cs := NewChunkStream(newBody(""))
	if _, ok := cs.Next(); ok {
		t.Fatal("expected no chunks from empty input")
	}
	if cs.Err() != nil {
		t.Fatalf("unexpected error: %v", cs.Err())
	}
}

type errReader struct{}

func (errReader) Read(p []byte) (int, error) { return 0, io.ErrUnexpectedEOF }
func (errReader) Close() error                { return nil }

func TestChunkStreamReadErrorEndsStreamWithoutPartialFrame(t *testing.T) {
	cs := NewChunkStream(errReader{})
	if _, ok := cs.Next(); ok {
		t.Fatal("expected no chunk on read error")
	}
	if cs.Err() == nil {
		t.Fatal("expected Err() to report the read failure")
	}
}
