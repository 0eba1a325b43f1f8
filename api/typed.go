package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/engpro/engpro-go/apierr"
	"github.com/goccy/go-json"
)

// Page is the shared paged-list shape every list endpoint returns.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
	Total      int `json:"total"`
}

func decode[T any](data json.RawMessage) (T, error) {
	var v T
	if len(data) == 0 || string(data) == "null" {
		return v, nil
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, apierr.Network(fmt.Errorf("decoding response data: %w", err))
	}
	return v, nil
}

func Get[T any](ctx context.Context, c *Client, path string, query url.Values) (T, error) {
	data, err := c.Do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](data)
}

func Post[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	data, err := c.Do(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](data)
}

func Put[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	data, err := c.Do(ctx, http.MethodPut, path, nil, body)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](data)
}

func Delete[T any](ctx context.Context, c *Client, path string) (T, error) {
	data, err := c.Do(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](data)
}
