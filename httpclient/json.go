package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// GetJSON issues a GET and decodes the response into out (out may be nil).
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.roundTrip(ctx, &Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

// PostJSON issues a POST with a JSON body and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, path string, in, out any) error {
	body, err := marshalBody(in)
	if err != nil {
		return err
	}
	return c.roundTrip(ctx, &Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

// PutJSON issues a PUT with a JSON body and decodes the response into out.
func (c *Client) PutJSON(ctx context.Context, path string, in, out any) error {
	body, err := marshalBody(in)
	if err != nil {
		return err
	}
	return c.roundTrip(ctx, &Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

// Delete issues a DELETE, discarding any response body.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.roundTrip(ctx, &Request{Method: http.MethodDelete, Path: path}, nil)
}

// PostMultipart issues a POST with a multipart form body and decodes the
// response into out. Method override for updates is carried inside the form.
func (c *Client) PostMultipart(ctx context.Context, path string, form *Form, out any) error {
	contentType, body, err := form.Encode()
	if err != nil {
		return err
	}
	return c.roundTrip(ctx, &Request{
		Method:      http.MethodPost,
		Path:        path,
		Body:        body,
		ContentType: contentType,
	}, out)
}

func (c *Client) roundTrip(ctx context.Context, req *Request, out any) error {
	body, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("httpclient: decoding %s %s response: %w", req.Method, req.Path, err)
	}
	return nil
}

func marshalBody(in any) ([]byte, error) {
	if in == nil {
		return nil, nil
	}
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("httpclient: encoding request body: %w", err)
	}
	return body, nil
}
