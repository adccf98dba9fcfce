package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rs/zerolog/log"
)

// maxPages stops ListAll if a server keeps returning next links.
var maxPages = 1000

// ListParams are the filters the list endpoints understand. Zero values are omitted.
type ListParams struct {
	Search    string
	Status    string
	StartDate string
	Page      int
	PageSize  int
	Extra     url.Values
}

// Values encodes the parameters as a query string.
func (p *ListParams) Values() url.Values {
	q := url.Values{}
	if p == nil {
		return q
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	if p.StartDate != "" {
		q.Set("start_date", p.StartDate)
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(p.PageSize))
	}
	for k, vs := range p.Extra {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	return q
}

// Page is one page of a list endpoint.
type Page[T any] struct {
	Count    int    `json:"count"`
	Next     string `json:"next,omitempty"`
	Previous string `json:"previous,omitempty"`
	Results  []T    `json:"results"`
}

// UnmarshalJSON accepts both a paginated object and a bare JSON array.
// Unpaginated endpoints return the array form.
func (p *Page[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var items []T
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		*p = Page[T]{Count: len(items), Results: items}
		return nil
	}

	var raw struct {
		Count    *int    `json:"count"`
		Next     *string `json:"next"`
		Previous *string `json:"previous"`
		Results  []T     `json:"results"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*p = Page[T]{Results: raw.Results}
	if raw.Count != nil {
		p.Count = *raw.Count
	} else {
		p.Count = len(raw.Results)
	}
	if raw.Next != nil {
		p.Next = *raw.Next
	}
	if raw.Previous != nil {
		p.Previous = *raw.Previous
	}
	return nil
}

// HasNext reports whether another page follows.
func (p *Page[T]) HasNext() bool { return p != nil && p.Next != "" }

// walkPages fetches path page by page, calling fn for each, until there is
// no next link or fn returns an error.
func walkPages[T any](ctx context.Context, c *Client, path string, params *ListParams, fn func(*Page[T]) error) error {
	query := params.Values()
	for i := 0; i < maxPages; i++ {
		page, err := fetch[Page[T]](ctx, c, &Request{Method: "GET", Path: path, Query: query})
		if err != nil {
			return err
		}
		if err := fn(page); err != nil {
			return err
		}
		if !page.HasNext() {
			return nil
		}
		query, err = nextPageQuery(page.Next)
		if err != nil {
			return err
		}
	}
	log.Warn().Str("path", path).Int("pages", maxPages).Msg("Stopped following pagination links")
	return fmt.Errorf("stopped after %d pages of %s: next link still present", maxPages, path)
}
