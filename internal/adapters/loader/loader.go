// Package loader fetches the attrition JSON resources from either the live
// scoring service or the exported static tree, with empty-sequence fallbacks
// for page rendering.
package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/attrition/internal/domain/model"
	"github.com/okian/attrition/internal/domain/result"
	"github.com/okian/attrition/pkg/logger"
	"github.com/okian/attrition/pkg/metrics"
)

const (
	defaultTimeout      = 10 * time.Second
	defaultMaxBodyBytes = 32 << 20
	drainLimit          = 4 << 10
	msPerSecond         = 1000

	headerRequestID = "X-Request-ID"
	contentTypeJSON = "application/json"
)

type requestIDKey struct{}

// WithRequestID attaches an id that is sent as X-Request-ID on every fetch made with ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the id set by WithRequestID.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}

// Loader reads JSON resources. It holds no per-call state and is safe for
// concurrent use; nothing is cached between calls.
type Loader struct {
	resolver *Resolver
	client   Doer
	timeout  time.Duration
	maxBody  int64
	parallel bool
	logger   logger.Logger
	newID    func() string
}

// New builds a Loader for the given settings.
func New(settings Settings, opts ...Option) (*Loader, error) {
	r, err := NewResolver(settings)
	if err != nil {
		return nil, err
	}
	l := &Loader{
		resolver: r,
		timeout:  defaultTimeout,
		maxBody:  defaultMaxBodyBytes,
		parallel: true,
		logger:   logger.Nop(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.client == nil {
		l.client = &http.Client{Timeout: l.timeout}
	}
	return l, nil
}

// Resolver exposes URL resolution, e.g. for mounting the static tree.
func (l *Loader) Resolver() *Resolver { return l.resolver }

// Fetch GETs a resource resolved by mode and returns its JSON body verbatim.
func (l *Loader) Fetch(ctx context.Context, name string) (json.RawMessage, error) {
	u, err := l.resolver.ResourceURL(name)
	if err != nil {
		return nil, err
	}
	return l.get(ctx, name, u)
}

// FetchAsset GETs a document from the static tree regardless of mode.
func (l *Loader) FetchAsset(ctx context.Context, name string) (json.RawMessage, error) {
	u, err := l.resolver.AssetURL(name)
	if err != nil {
		return nil, err
	}
	return l.get(ctx, name, u)
}

// FetchResult is Fetch packaged as a Result.
func (l *Loader) FetchResult(ctx context.Context, name string) result.Result[json.RawMessage] {
	raw, err := l.Fetch(ctx, name)
	return result.Of(raw, err)
}

func (l *Loader) get(ctx context.Context, resource, u string) (json.RawMessage, error) {
	start := time.Now()
	body, err := l.do(ctx, resource, u)
	elapsed := time.Since(start)

	metrics.RecordFetch(resource, l.resolver.Mode().String(), Kind(err))
	metrics.RecordFetchLatency(resource, float64(elapsed.Microseconds())/msPerSecond)

	if err != nil {
		fields := []logger.Field{
			logger.String("resource", resource),
			logger.String("url", u),
			logger.String("kind", Kind(err)),
			logger.Error(err),
		}
		if id, ok := RequestIDFromContext(ctx); ok {
			fields = append(fields, logger.String("load_id", id))
		}
		l.logger.Error(ctx, "resource fetch failed", fields...)
		return nil, err
	}
	l.logger.Debug(ctx, "resource fetched",
		logger.String("resource", resource),
		logger.Int("bytes", len(body)),
		logger.Duration("elapsed", elapsed),
	)
	return body, nil
}

func (l *Loader) do(ctx context.Context, resource, u string) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &TransportError{Resource: resource, URL: u, Err: err}
	}
	req.Header.Set("Content-Type", contentTypeJSON)
	req.Header.Set("Accept", contentTypeJSON)
	if id, ok := RequestIDFromContext(ctx); ok {
		req.Header.Set(headerRequestID, id)
	} else {
		req.Header.Set(headerRequestID, l.newID())
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, &TransportError{Resource: resource, URL: u, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, drainLimit))
		return nil, &RequestFailedError{Resource: resource, URL: u, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBody+1))
	if err != nil {
		return nil, &TransportError{Resource: resource, URL: u, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(body)) > l.maxBody {
		return nil, &ParseError{Resource: resource, Err: fmt.Errorf("%w: limit %d bytes", ErrBodyTooLarge, l.maxBody)}
	}

	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &ParseError{Resource: resource, Err: err}
	}
	return raw, nil
}

// LoadPageData returns the employee document and the top at-risk ranking.
// It never fails: a missing employee document empties both collections and
// a missing ranking empties only the ranking.
func (l *Loader) LoadPageData(ctx context.Context) model.PageData {
	pd, _ := l.LoadPage(ctx)
	return pd
}

// LoadPage is LoadPageData plus a status describing which fallbacks applied.
func (l *Loader) LoadPage(ctx context.Context) (model.PageData, model.PageStatus) {
	start := time.Now()
	loadID := l.newID()
	ctx = WithRequestID(ctx, loadID)

	var employees, top result.Result[[]json.RawMessage]
	loadEmployees := func() {
		employees = l.sequence(ctx, model.ResourceEmployee, l.FetchAsset)
	}
	loadTop := func() {
		top = l.sequence(ctx, model.ResourceTopEmployees, l.Fetch)
	}

	if l.parallel {
		// Both goroutines report through their Result; neither aborts the other.
		var g errgroup.Group
		g.Go(func() error { loadEmployees(); return nil })
		g.Go(func() error { loadTop(); return nil })
		_ = g.Wait()
	} else {
		loadEmployees()
		loadTop()
	}

	status := model.PageOK
	if err := top.Err(); err != nil {
		status = model.PageDegraded
		metrics.RecordFallback(model.ResourceTopEmployees, Kind(err))
	}

	pd := model.PageData{
		Employees:    employees.UnwrapOr(nil),
		TopEmployees: top.UnwrapOr([]model.TopAtRiskEntry{}),
	}
	if err := employees.Err(); err != nil {
		status = model.PageUnavailable
		metrics.RecordFallback(model.ResourceEmployee, Kind(err))
		pd = model.EmptyPageData()
	}

	elapsed := time.Since(start)
	metrics.RecordPageLoad(string(status), float64(elapsed.Microseconds())/msPerSecond)
	l.logger.Info(ctx, "page data loaded",
		logger.String("load_id", loadID),
		logger.String("status", string(status)),
		logger.Int("employees", len(pd.Employees)),
		logger.Int("top_employees", len(pd.TopEmployees)),
		logger.Duration("elapsed", elapsed),
	)
	return pd, status
}

type fetchFunc func(ctx context.Context, name string) (json.RawMessage, error)

// sequence fetches name and splits the document into its array elements.
func (l *Loader) sequence(ctx context.Context, name string, fetch fetchFunc) result.Result[[]json.RawMessage] {
	raw, err := fetch(ctx, name)
	if err != nil {
		return result.Err[[]json.RawMessage](err)
	}
	items, err := decodeSequence(name, raw)
	if err != nil {
		l.logger.Error(ctx, "resource is not a JSON array",
			logger.String("resource", name),
			logger.Error(err),
		)
		return result.Err[[]json.RawMessage](err)
	}
	return result.Ok(items)
}

func decodeSequence(resource string, raw json.RawMessage) ([]json.RawMessage, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &ParseError{Resource: resource, Err: err}
	}
	if items == nil {
		items = []json.RawMessage{}
	}
	return items, nil
}
