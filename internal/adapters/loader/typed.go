package loader

import (
	"context"
	"encoding/json"

	"github.com/okian/attrition/internal/domain/model"
)

// Health fetches the health resource.
func (l *Loader) Health(ctx context.Context) (model.Health, error) {
	return fetchTyped[model.Health](ctx, l, model.ResourceHealth)
}

// ModelInfo fetches the model-info resource.
func (l *Loader) ModelInfo(ctx context.Context) (model.ModelInfo, error) {
	return fetchTyped[model.ModelInfo](ctx, l, model.ResourceModelInfo)
}

// Endpoints fetches the index resource.
func (l *Loader) Endpoints(ctx context.Context) (model.EndpointIndex, error) {
	return fetchTyped[model.EndpointIndex](ctx, l, model.ResourceIndex)
}

// TopEmployees fetches and decodes the top at-risk ranking.
func (l *Loader) TopEmployees(ctx context.Context) ([]model.TopEmployee, error) {
	top, err := fetchTyped[[]model.TopEmployee](ctx, l, model.ResourceTopEmployees)
	if err != nil {
		return nil, err
	}
	if top == nil {
		top = []model.TopEmployee{}
	}
	return top, nil
}

func fetchTyped[T any](ctx context.Context, l *Loader, name string) (T, error) {
	var v T
	raw, err := l.Fetch(ctx, name)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, &ParseError{Resource: name, Err: err}
	}
	return v, nil
}
