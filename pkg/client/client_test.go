package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.datum.net/k8sclient/pkg/resource"
	"go.datum.net/k8sclient/pkg/transport"
)

type podSpec struct{}
type podStatus struct{}
type podHeader struct{}

var podKind = resource.Kind[podSpec, podStatus, podHeader]{
	Descriptor: resource.Descriptor{
		Group:      resource.CoreGroup,
		Version:    "v1",
		Kind:       "Pod",
		Plural:     "pods",
		Namespaced: true,
	},
}

// TestWatchFromNowOrdersSyntheticAddsBeforeLiveEvents pins the
// ordering guarantee in spec.md 4.7: every ADDED event synthesized
// from the initial list must be returned before the caller ever reads
// from the live watch stream.
func TestWatchFromNowOrdersSyntheticAddsBeforeLiveEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Query().Get("watch") == "true":
			w.Header().Set("Content-Type", "application/json")
			w.(http.Flusher).Flush()
			w.Write([]byte(`{"type":"ADDED","object":{"apiVersion":"v1","kind":"Pod","metadata":{"name":"c"}}}` + "\n"))
		default:
			json.NewEncoder(w).Encode(resource.ListResult[podSpec, podStatus, podHeader]{
				Items: []resource.Object[podSpec, podStatus, podHeader]{
					{APIVersion: "v1", Kind: "Pod", Metadata: resource.ObjectMeta{Name: "a"}},
					{APIVersion: "v1", Kind: "Pod", Metadata: resource.ObjectMeta{Name: "b"}},
				},
				Metadata: resource.ListMetadata{ResourceVersion: "100"},
			})
		}
	}))
	defer srv.Close()

	d := &transport.Dispatcher[podSpec, podStatus, podHeader]{HTTPClient: srv.Client(), Host: srv.URL}
	c := New(srv.URL, d, podKind)

	synthetic, stream, err := c.WatchFromNow(context.Background(), "default")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer stream.Close()

	if len(synthetic) != 2 || synthetic[0].Object.Metadata.Name != "a" || synthetic[1].Object.Metadata.Name != "b" {
		t.Fatalf("got synthetic events %+v, want ADDED for a then b in list order", synthetic)
	}
	for i, ev := range synthetic {
		if ev.Type != resource.Added {
			t.Errorf("synthetic event %d: got type %q, want ADDED", i, ev.Type)
		}
	}

	live, ok := stream.Next()
	if !ok {
		t.Fatal("expected one live event from the watch stream")
	}
	if live.Type != resource.Added || live.Object.Metadata.Name != "c" {
		t.Fatalf("got live event %+v, want ADDED for c", live)
	}
}

func TestGetReturnsNilNilOnNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(resource.ServerStatus{Kind: "Status", Status: "Failure", Code: 404})
	}))
	defer srv.Close()

	d := &transport.Dispatcher[podSpec, podStatus, podHeader]{HTTPClient: srv.Client(), Host: srv.URL}
	c := New(srv.URL, d, podKind)

	obj, err := c.Get(context.Background(), Meta{Name: "missing", Namespace: "default"})
	if err != nil {
		t.Fatalf("expected no error for 404, got %v", err)
	}
	if obj != nil {
		t.Fatalf("expected nil object, got %+v", obj)
	}
}
