package watch

import (
	"testing"

	"go.datum.net/k8sclient/pkg/resource"
)

type testSpec struct{}
type testStatus struct{}
type testHeader struct{}

func newEventStream(s string) *EventStream[testSpec, testStatus, testHeader] {
	return NewEventStream[testSpec, testStatus, testHeader](NewChunkStream(newBody(s)))
}

func TestEventStreamDecodesAddedModifiedDeleted(t *testing.T) {
	es := newEventStream(
		`{"type":"ADDED","object":{"apiVersion":"v1","kind":"Pod","metadata":{"name":"a"}}}` + "\n" +
			`{"type":"MODIFIED","object":{"apiVersion":"v1","kind":"Pod","metadata":{"name":"a"}}}` + "\n" +
			`{"type":"DELETED","object":{"apiVersion":"v1","kind":"Pod","metadata":{"name":"a"}}}` + "\n",
	)

	var types []resource.WatchEventType
	for {
		ev, ok := es.Next()
		if !ok {
			break
		}
		types = append(types, ev.Type)
	}
	if err := es.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []resource.WatchEventType{resource.Added, resource.Modified, resource.Deleted}
	if len(types) != len(want) {
		t.Fatalf("got %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("event %d: got %q, want %q", i, types[i], want[i])
		}
	}
}

func TestEventStreamSurfacesErrorEventStatus(t *testing.T) {
	es := newEventStream(`{"type":"ERROR","object":{"apiVersion":"v1","kind":"Status","status":"Failure","code":410,"reason":"Gone"}}` + "\n")

	ev, ok := es.Next()
	if !ok {
		t.Fatal("expected one event")
	}
	if ev.Type != resource.EventError {
		t.Fatalf("got type %q, want ERROR", ev.Type)
	}
	if ev.Status == nil || ev.Status.Code != 410 {
		t.Fatalf("got status %+v, want code 410", ev.Status)
	}
}

func TestEventStreamBookmarkPassesThrough(t *testing.T) {
	es := newEventStream(`{"type":"BOOKMARK","object":{"apiVersion":"v1","kind":"Pod","metadata":{"resourceVersion":"123"}}}` + "\n")

	ev, ok := es.Next()
	if !ok {
		t.Fatal("expected one event")
	}
	if ev.Type != resource.Bookmark {
		t.Fatalf("got type %q, want BOOKMARK", ev.Type)
	}
	if ev.Object.Metadata.ResourceVersion != "123" {
		t.Fatalf("got resourceVersion %q, want 123", ev.Object.Metadata.ResourceVersion)
	}
}

func TestEventStreamBadDocumentEmitsErrorEventAndContinues(t *testing.T) {
	es := newEventStream(
		"not json\n" +
			`{"type":"ADDED","object":{"apiVersion":"v1","kind":"Pod","metadata":{"name":"a"}}}` + "\n",
	)

	first, ok := es.Next()
	if !ok {
		t.Fatal("expected a synthetic error event for the bad document")
	}
	if first.Type != resource.EventError {
		t.Fatalf("got type %q, want ERROR", first.Type)
	}

	second, ok := es.Next()
	if !ok {
		t.Fatal("expected the stream to recover and decode the next document")
	}
	if second.Type != resource.Added || second.Object.Metadata.Name != "a" {
		t.Fatalf("got %+v, want ADDED event for pod a", second)
	}

	if _, ok := es.Next(); ok {
		t.Fatal("expected stream to end after two events")
	}
}
