package listpager

import (
	"context"
	"errors"
	"testing"

	"go.datum.net/k8sclient/pkg/resource"
)

type spec struct{ Replicas int }

func pageOf(tokens ...string) []*resource.ListResult[spec, struct{}, struct{}] {
	pages := make([]*resource.ListResult[spec, struct{}, struct{}], len(tokens))
	for i, tok := range tokens {
		pages[i] = &resource.ListResult[spec, struct{}, struct{}]{
			Items:    []resource.Object[spec, struct{}, struct{}]{{Metadata: resource.ObjectMeta{Name: tok}}},
			Metadata: resource.ListMetadata{Continue: ""},
		}
	}
	return pages
}

func TestPaginatorWalksAllPagesThenStops(t *testing.T) {
	calls := 0
	fetch := func(ctx context.Context, token string) (*resource.ListResult[spec, struct{}, struct{}], error) {
		calls++
		switch calls {
		case 1:
			return &resource.ListResult[spec, struct{}, struct{}]{
				Items:    []resource.Object[spec, struct{}, struct{}]{{Metadata: resource.ObjectMeta{Name: "a"}}},
				Metadata: resource.ListMetadata{Continue: "tok-2"},
			}, nil
		case 2:
			if token != "tok-2" {
				t.Fatalf("expected continuation token tok-2, got %q", token)
			}
			return &resource.ListResult[spec, struct{}, struct{}]{
				Items:    []resource.Object[spec, struct{}, struct{}]{{Metadata: resource.ObjectMeta{Name: "b"}}},
				Metadata: resource.ListMetadata{},
			}, nil
		default:
			t.Fatal("paginator should not fetch a page past the one with no continue token")
			return nil, nil
		}
	}

	p := New(fetch)
	items, err := All(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 || items[0].Metadata.Name != "a" || items[1].Metadata.Name != "b" {
		t.Errorf("unexpected items: %+v", items)
	}
	if !p.Done() {
		t.Error("expected paginator to be done")
	}

	if _, ok := p.Next(context.Background()); ok {
		t.Error("paginator should not restart after exhaustion")
	}
}

func TestPaginatorStopsOnError(t *testing.T) {
	fetch := func(ctx context.Context, token string) (*resource.ListResult[spec, struct{}, struct{}], error) {
		return nil, errors.New("boom")
	}

	p := New(fetch)
	_, ok := p.Next(context.Background())
	if ok {
		t.Fatal("expected failure to stop the paginator")
	}
	if p.Err() == nil {
		t.Error("expected Err() to be set")
	}
	if !p.Done() {
		t.Error("expected paginator to be marked done after error")
	}
}
