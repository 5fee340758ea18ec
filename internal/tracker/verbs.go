package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Get issues a GET with params appended as a query string.
func (c *Client) Get(ctx context.Context, path string, params Params) (json.RawMessage, error) {
	res, err := c.get(ctx, path, params)
	return res.body, err
}

// Post sends body as JSON. A nil body is sent as {}.
func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	res, err := c.send(ctx, http.MethodPost, path, body)
	return res.body, err
}

// Put sends body as JSON. A nil body is sent as {}.
func (c *Client) Put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	res, err := c.send(ctx, http.MethodPut, path, body)
	return res.body, err
}

// Patch sends body as JSON. A nil body is sent as {}.
func (c *Client) Patch(ctx context.Context, path string, body any) (json.RawMessage, error) {
	res, err := c.send(ctx, http.MethodPatch, path, body)
	return res.body, err
}

// Delete issues a DELETE without a body.
func (c *Client) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	return c.Execute(ctx, path, RequestConfig{Method: http.MethodDelete})
}

func (c *Client) get(ctx context.Context, path string, params Params) (response, error) {
	return c.execute(ctx, withQuery(path, params), RequestConfig{Method: http.MethodGet})
}

func (c *Client) send(ctx context.Context, method, path string, body any) (response, error) {
	payload, err := encodeBody(body)
	if err != nil {
		return response{}, err
	}
	return c.execute(ctx, path, RequestConfig{Method: method, Body: payload})
}

func encodeBody(body any) ([]byte, error) {
	if isNil(body) {
		return []byte("{}"), nil
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return payload, nil
}

// decode unmarshals a result into T. An empty result (204) yields the zero
// value. A body that does not fit T is an invalid response carrying the
// status it arrived with.
func decode[T any](res response, err error) (T, error) {
	var out T
	if err != nil {
		return out, err
	}
	if len(res.body) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(res.body, &out); err != nil {
		return out, invalidResponseError(res.status, fmt.Errorf("decode response: %w", err))
	}
	return out, nil
}
