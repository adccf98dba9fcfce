package client

import (
	"context"
	"net/http"
)

// fetch executes req and decodes the body into a new T.
func fetch[T any](ctx context.Context, c *Client, req *Request) (*T, error) {
	resp, err := c.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	out := new(T)
	if err := resp.Decode(out); err != nil {
		return nil, err
	}
	return out, nil
}

// fetchList decodes either a bare array or a paginated object into a slice.
func fetchList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	page, err := fetch[Page[T]](ctx, c, &Request{Method: http.MethodGet, Path: path})
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}

// crud holds the operations shared by every resource collection.
type crud[T any] struct {
	c    *Client
	path string
}

// List fetches one page of the collection.
func (r crud[T]) List(ctx context.Context, params *ListParams) (*Page[T], error) {
	return fetch[Page[T]](ctx, r.c, &Request{Method: http.MethodGet, Path: r.path, Query: params.Values()})
}

// ListAll follows next links and returns every item of the collection.
func (r crud[T]) ListAll(ctx context.Context, params *ListParams) ([]T, error) {
	var all []T
	err := walkPages(ctx, r.c, r.path, params, func(p *Page[T]) error {
		all = append(all, p.Results...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}

// Walk calls fn for each page of the collection.
func (r crud[T]) Walk(ctx context.Context, params *ListParams, fn func(*Page[T]) error) error {
	return walkPages(ctx, r.c, r.path, params, fn)
}

// Get retrieves one item by id.
func (r crud[T]) Get(ctx context.Context, id int) (*T, error) {
	return fetch[T](ctx, r.c, &Request{Method: http.MethodGet, Path: idPath(r.path, id)})
}

func (r crud[T]) create(ctx context.Context, in any) (*T, error) {
	return fetch[T](ctx, r.c, &Request{Method: http.MethodPost, Path: r.path, Body: in})
}

func (r crud[T]) update(ctx context.Context, id int, in any) (*T, error) {
	return fetch[T](ctx, r.c, &Request{Method: http.MethodPut, Path: idPath(r.path, id), Body: in})
}

func (r crud[T]) patch(ctx context.Context, id int, in any) (*T, error) {
	return fetch[T](ctx, r.c, &Request{Method: http.MethodPatch, Path: idPath(r.path, id), Body: in})
}

func (r crud[T]) remove(ctx context.Context, id int) error {
	_, err := r.c.Execute(ctx, &Request{Method: http.MethodDelete, Path: idPath(r.path, id)})
	return err
}
