package eventpass

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/eventpass/eventpass-go/httpclient"
	"github.com/pkg/errors"
)

// resource is the shared CRUD plumbing every typed service embeds. List
// endpoints return the data/meta pagination envelope; single-record
// endpoints wrap the record in a data key.
type resource[T any] struct {
	client *httpclient.Client
	path   string
}

type recordEnvelope[T any] struct {
	Data T `json:"data"`
}

func (r resource[T]) List(ctx context.Context, pr httpclient.PageRequest) (httpclient.Page[T], error) {
	return httpclient.GetPage[T](ctx, r.client, r.path, pr)
}

func (r resource[T]) Get(ctx context.Context, id int64) (*T, error) {
	var envelope recordEnvelope[T]
	if err := r.client.GetJSON(ctx, r.itemPath(id), nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

func (r resource[T]) Create(ctx context.Context, in any) (*T, error) {
	var envelope recordEnvelope[T]
	if err := r.client.PostJSON(ctx, r.path, in, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

func (r resource[T]) Update(ctx context.Context, id int64, in any) (*T, error) {
	var envelope recordEnvelope[T]
	if err := r.client.PutJSON(ctx, r.itemPath(id), in, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

func (r resource[T]) Delete(ctx context.Context, id int64) error {
	return r.client.Delete(ctx, r.itemPath(id))
}

// createMultipart posts a form (image-bearing create).
func (r resource[T]) createMultipart(ctx context.Context, form *httpclient.Form) (*T, error) {
	var envelope recordEnvelope[T]
	if err := r.client.PostMultipart(ctx, r.path, form, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// updateMultipart posts a form with the PUT method override (image-bearing
// update, since the backend cannot parse multipart on a native PUT).
func (r resource[T]) updateMultipart(ctx context.Context, id int64, form *httpclient.Form) (*T, error) {
	form.MethodOverride("PUT")
	var envelope recordEnvelope[T]
	if err := r.client.PostMultipart(ctx, r.itemPath(id), form, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

func (r resource[T]) itemPath(id int64) string {
	return fmt.Sprintf("%s/%d", r.path, id)
}

func marshalJSON(in any) ([]byte, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, errors.Wrap(err, "encoding request")
	}
	return body, nil
}
