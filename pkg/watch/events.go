package watch

import (
	"encoding/json"
	"fmt"

	"go.datum.net/k8sclient/pkg/resource"
)

// envelope is the wire shape of one watch line: a type tag plus the
// raw object, deferred-decoded once Type tells us whether it's a kind
// object or (for ERROR events) a Status.
type envelope struct {
	Type   resource.WatchEventType `json:"type"`
	Object json.RawMessage        `json:"object"`
}

// EventStream decodes a ChunkStream's frames into typed watch events.
// A frame that fails to decode produces a synthetic ERROR event
// carrying the decode failure rather than ending the stream -- one bad
// line shouldn't take down a long-lived watch.
type EventStream[S, St, H any] struct {
	chunks *ChunkStream
}

// NewEventStream wraps a ChunkStream, decoding each frame as an event
// for the given resource shape.
func NewEventStream[S, St, H any](chunks *ChunkStream) *EventStream[S, St, H] {
	return &EventStream[S, St, H]{chunks: chunks}
}

// Next returns the next decoded event, or (nil, false) when the stream
// has ended. Call Err to learn whether the end was clean.
func (e *EventStream[S, St, H]) Next() (*resource.WatchEvent[S, St, H], bool) {
	frame, ok := e.chunks.Next()
	if !ok {
		return nil, false
	}

	var env envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return &resource.WatchEvent[S, St, H]{
			Type:   resource.EventError,
			Status: &resource.ServerStatus{Status: "Failure", Message: fmt.Sprintf("decode watch event: %v", err)},
		}, true
	}

	if env.Type == resource.EventError {
		var status resource.ServerStatus
		if err := json.Unmarshal(env.Object, &status); err != nil {
			return &resource.WatchEvent[S, St, H]{
				Type:   resource.EventError,
				Status: &resource.ServerStatus{Status: "Failure", Message: fmt.Sprintf("decode error status: %v", err)},
			}, true
		}
		return &resource.WatchEvent[S, St, H]{Type: resource.EventError, Status: &status}, true
	}

	var obj resource.Object[S, St, H]
	if err := json.Unmarshal(env.Object, &obj); err != nil {
		return &resource.WatchEvent[S, St, H]{
			Type:   resource.EventError,
			Status: &resource.ServerStatus{Status: "Failure", Message: fmt.Sprintf("decode watch object: %v", err)},
		}, true
	}

	return &resource.WatchEvent[S, St, H]{Type: env.Type, Object: obj}, true
}

// Err returns the underlying chunk stream's terminal error, if any.
func (e *EventStream[S, St, H]) Err() error {
	return e.chunks.Err()
}

// Close releases the underlying stream.
func (e *EventStream[S, St, H]) Close() error {
	return e.chunks.Close()
}
