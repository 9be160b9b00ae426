package mesh

import (
	"context"
	"errors"
	"fmt"
)

// ListFunc is any list operation that accepts query params and returns a
// paginated envelope, e.g. client.Nodes().List.
type ListFunc[T any] func(ctx context.Context, params *QueryParams) (*ListEnvelope[T], error)

// PaginationIterator walks a paginated list endpoint item by item, fetching
// pages lazily as needed. Ordering within and across pages is server-defined.
type PaginationIterator[T any] struct {
	ctx        context.Context
	list       ListFunc[T]
	params     *QueryParams
	buffer     []T
	page       int
	totalPages int
	fetched    bool
}

// NewPaginationIterator creates an iterator over a list operation. The page
// number in params, when set, selects the starting page.
func NewPaginationIterator[T any](ctx context.Context, list ListFunc[T], params *QueryParams) *PaginationIterator[T] {
	if params == nil {
		params = NewQueryParams()
	}

	page := params.Page
	if page < 1 {
		page = 1
	}

	return &PaginationIterator[T]{
		ctx:    ctx,
		list:   list,
		params: params,
		page:   page,
	}
}

// HasNext reports whether another item is available without consuming it.
func (it *PaginationIterator[T]) HasNext() bool {
	if len(it.buffer) > 0 {
		return true
	}

	if !it.fetched {
		return true
	}

	return it.page <= it.totalPages
}

// Next returns the next item, fetching the next page when the current one is
// exhausted. It returns ErrNoMoreItems past the last page.
func (it *PaginationIterator[T]) Next() (T, error) {
	var zero T

	if len(it.buffer) == 0 {
		if it.fetched && it.page > it.totalPages {
			return zero, ErrNoMoreItems
		}

		err := it.fetchPage()
		if err != nil {
			return zero, err
		}

		if len(it.buffer) == 0 {
			return zero, ErrNoMoreItems
		}
	}

	item := it.buffer[0]
	it.buffer = it.buffer[1:]

	return item, nil
}

func (it *PaginationIterator[T]) fetchPage() error {
	it.params.Page = it.page

	envelope, err := it.list(it.ctx, it.params)
	if err != nil {
		return fmt.Errorf("fetching page %d: %w", it.page, err)
	}

	if !envelope.Success {
		return fmt.Errorf("fetching page %d: %w: %s", it.page, ErrServerRejected, envelope.Error)
	}

	it.buffer = envelope.Data
	it.totalPages = envelope.TotalPages
	it.fetched = true
	it.page++

	return nil
}

// FetchAllPages collects every item from every page of a list operation.
func FetchAllPages[T any](ctx context.Context, list ListFunc[T], params *QueryParams) ([]T, error) {
	iterator := NewPaginationIterator(ctx, list, params)

	var items []T

	for iterator.HasNext() {
		item, err := iterator.Next()
		if err != nil {
			if errors.Is(err, ErrNoMoreItems) {
				break
			}

			return nil, err
		}

		items = append(items, item)
	}

	return items, nil
}
