package httpclient

import (
	"context"
	"net/url"
	"strconv"
)

// Meta is the pagination envelope returned by every list endpoint.
type Meta struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

// Page is one page of a listed resource.
type Page[T any] struct {
	Data []T  `json:"data"`
	Meta Meta `json:"meta"`
}

// HasNext reports whether another page follows this one.
func (p Page[T]) HasNext() bool {
	return p.Meta.CurrentPage < p.Meta.LastPage
}

// PageRequest selects which slice of a listing to fetch. Zero values let the
// server apply its defaults.
type PageRequest struct {
	Page    int
	PerPage int
}

func (pr PageRequest) query() url.Values {
	q := url.Values{}
	if pr.Page > 0 {
		q.Set("page", strconv.Itoa(pr.Page))
	}
	if pr.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(pr.PerPage))
	}
	return q
}

// GetPage fetches one page of a listed resource. A function rather than a
// method because Go methods cannot introduce type parameters.
func GetPage[T any](ctx context.Context, c *Client, path string, pr PageRequest) (Page[T], error) {
	var page Page[T]
	if err := c.GetJSON(ctx, path, pr.query(), &page); err != nil {
		return Page[T]{}, err
	}
	return page, nil
}
