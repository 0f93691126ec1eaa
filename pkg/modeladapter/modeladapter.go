package modeladapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/germanamz/completions/pkg/modeladapter/usage"
)

var (
	// ErrRemoteAPI classifies any failure at the transport or client layer,
	// including non-2xx responses from the endpoint.
	ErrRemoteAPI = errors.New("remote api failure")

	// ErrUnexpectedResponse classifies a decoded response that lacks the
	// expected choices or text field.
	ErrUnexpectedResponse = errors.New("unexpected response shape")
)

// Request holds the parameters of a single completion call.
type Request struct {
	Model       string   `json:"model"`
	Prompt      string   `json:"prompt"`
	MaxTokens   int      `json:"max_tokens"`
	Temperature float64  `json:"temperature"`
	Stop        []string `json:"stop,omitempty"`
}

// Response is the result of a completion call. Only the first choice's text
// is extracted; Raw keeps the payload as received, for display.
type Response struct {
	Text string
	Raw  any
}

// Completer issues one completion request and returns the parsed response.
type Completer interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

// CompleterFunc adapts a plain function to the Completer interface.
type CompleterFunc func(ctx context.Context, req Request) (Response, error)

// Complete calls the underlying function.
func (f CompleterFunc) Complete(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}

// Auth holds authentication settings for a provider API.
type Auth struct {
	Key          string // API key value, sent as a bearer token.
	Organization string // Optional organization identifier.
}

// ModelAdapter holds shared state for provider implementations. Embed it in
// concrete provider structs to get model defaults, auth, HTTP client setup
// and usage tracking.
type ModelAdapter struct {
	Name        string            // Model identifier (e.g. "gpt-3.5-turbo-instruct").
	Temperature float64           // Sampling temperature.
	MaxTokens   int               // Maximum tokens in the response.
	Auth        Auth              // Authentication settings.
	BaseURL     string            // API base URL including the version prefix (no trailing slash).
	Client      *http.Client      // HTTP client; falls back to a client with a 10-minute timeout.
	Headers     map[string]string // Extra headers applied to every request.
	Usage       usage.Tracker     // Token usage tracker.

	defaultClient *http.Client
}

// New creates a ModelAdapter with the given settings.
// A nil client falls back to a default client at call time.
func New(baseURL string, auth Auth, client *http.Client) ModelAdapter {
	return ModelAdapter{
		Auth:    auth,
		BaseURL: baseURL,
		Client:  client,
	}
}

// UsageTracker returns the adapter's token usage tracker.
func (a *ModelAdapter) UsageTracker() *usage.Tracker { return &a.Usage }

// BuildRequest returns a Request for prompt filled with the adapter's model
// settings. A nil stop slice sends no stop sequences.
func (a *ModelAdapter) BuildRequest(prompt string, stop []string) Request {
	return Request{
		Model:       a.Name,
		Prompt:      prompt,
		MaxTokens:   a.MaxTokens,
		Temperature: a.Temperature,
		Stop:        stop,
	}
}

// HTTPClient returns the client requests should be sent with. Custom headers
// are applied by wrapping the client's transport.
func (a *ModelAdapter) HTTPClient() *http.Client {
	if len(a.Headers) == 0 {
		return a.baseClient()
	}

	return a.wrap(nil)
}

// RecordingClient is HTTPClient with every response body also kept in rec,
// so callers can inspect the exact payload the endpoint sent.
func (a *ModelAdapter) RecordingClient(rec *Recorder) *http.Client {
	return a.wrap(rec)
}

func (a *ModelAdapter) baseClient() *http.Client {
	if a.Client != nil {
		return a.Client
	}

	if a.defaultClient == nil {
		a.defaultClient = &http.Client{Timeout: 10 * time.Minute}
	}

	return a.defaultClient
}

func (a *ModelAdapter) wrap(rec *Recorder) *http.Client {
	base := a.baseClient()

	wrapped := *base
	wrapped.Transport = &transport{base: base.Transport, headers: a.Headers, rec: rec}

	return &wrapped
}

// Recorder holds the body of the last response received through a
// recording client.
type Recorder struct {
	body []byte
}

// Body returns the last recorded response body, or nil.
func (r *Recorder) Body() []byte { return r.body }

// transport sets a fixed set of headers on every outgoing request and
// optionally records response bodies.
type transport struct {
	base    http.RoundTripper
	headers map[string]string
	rec     *Recorder
}

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if len(t.headers) > 0 {
		req = req.Clone(req.Context())
		for k, v := range t.headers {
			req.Header.Set(k, v)
		}
	}

	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}

	resp, err := base.RoundTrip(req)
	if err != nil || t.rec == nil {
		return resp, err
	}

	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	t.rec.body = body
	resp.Body = io.NopCloser(bytes.NewReader(body))

	return resp, nil
}
