// Package listpager turns a collection's continue-token pagination
// into a lazy, non-restartable sequence of pages: it fetches the first
// page on the first call to Next and stops, permanently, the moment a
// page either omits a continue token or returns an error. Mirrors the
// finite-stream behavior of the original client's ListStream.
package listpager

import (
	"context"
	"fmt"

	"go.datum.net/k8sclient/pkg/resource"
)

// PageFetcher retrieves one page given the continuation token from the
// previous page (empty for the first page).
type PageFetcher[S, St, H any] func(ctx context.Context, continueToken string) (*resource.ListResult[S, St, H], error)

// Paginator yields successive pages of a list until the collection is
// exhausted or an error occurs. It is not restartable: once done or
// erred, it stays that way.
type Paginator[S, St, H any] struct {
	fetch PageFetcher[S, St, H]
	next  string
	done  bool
	err   error
}

// New returns a Paginator that calls fetch for each page, starting
// with an empty continuation token.
func New[S, St, H any](fetch PageFetcher[S, St, H]) *Paginator[S, St, H] {
	return &Paginator[S, St, H]{fetch: fetch}
}

// Next retrieves the next page, or (nil, false) once the collection is
// exhausted or a page fetch failed. Call Err to distinguish the two.
func (p *Paginator[S, St, H]) Next(ctx context.Context) (*resource.ListResult[S, St, H], bool) {
	if p.done {
		return nil, false
	}

	page, err := p.fetch(ctx, p.next)
	if err != nil {
		p.done = true
		p.err = fmt.Errorf("fetch list page: %w", err)
		return nil, false
	}

	if page.Metadata.Continue == "" {
		p.done = true
	} else {
		p.next = page.Metadata.Continue
	}

	return page, true
}

// Err returns the error that ended pagination, if any.
func (p *Paginator[S, St, H]) Err() error {
	return p.err
}

// Done reports whether the paginator has reached the end of the
// collection (successfully or via error).
func (p *Paginator[S, St, H]) Done() bool {
	return p.done
}

// All drains every remaining page into a single slice of items,
// convenient for callers that don't need incremental pagination.
func All[S, St, H any](ctx context.Context, p *Paginator[S, St, H]) ([]resource.Object[S, St, H], error) {
	var items []resource.Object[S, St, H]
	for {
		page, ok := p.Next(ctx)
		if !ok {
			break
		}
		items = append(items, page.Items...)
	}
	if err := p.Err(); err != nil {
		return items, err
	}
	return items, nil
}
