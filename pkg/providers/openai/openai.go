// Package openai provides a Completer implementation for the OpenAI legacy
// Completions API (instruct models).
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/germanamz/completions/pkg/modeladapter"
	"github.com/germanamz/completions/pkg/modeladapter/usage"
	goopenai "github.com/sashabaranov/go-openai"
)

// DefaultBaseURL is the public OpenAI API endpoint.
const DefaultBaseURL = "https://api.openai.com/v1"

// Endpoint names the client call used for a completion, as shown in verbose output.
const Endpoint = "completions.create"

var _ modeladapter.Completer = (*Adapter)(nil)

// Adapter implements modeladapter.Completer for the OpenAI Completions API.
type Adapter struct {
	modeladapter.ModelAdapter
}

// New creates an Adapter configured for the OpenAI API.
// The baseURL should include the version prefix, e.g. "https://api.openai.com/v1".
func New(baseURL, apiKey, model string) *Adapter {
	a := &Adapter{}
	a.BaseURL = baseURL
	a.Auth = modeladapter.Auth{Key: apiKey}
	a.Name = model
	a.MaxTokens = 256
	a.Temperature = 0.7

	return a
}

// Complete sends exactly one request to the Completions API and returns the
// first choice's text. Client and transport failures wrap
// modeladapter.ErrRemoteAPI; a response without choices, or whose first
// choice has no text field, wraps modeladapter.ErrUnexpectedResponse.
func (a *Adapter) Complete(ctx context.Context, req modeladapter.Request) (modeladapter.Response, error) {
	var rec modeladapter.Recorder

	resp, err := a.client(&rec).CreateCompletion(ctx, buildRequest(req))
	if err != nil {
		return modeladapter.Response{}, fmt.Errorf("openai: %w: %w", modeladapter.ErrRemoteAPI, err)
	}

	out := modeladapter.Response{Raw: rawPayload(rec.Body(), resp)}

	if !hasFirstText(rec.Body()) || len(resp.Choices) == 0 {
		return out, fmt.Errorf("openai: %w: missing choices[0].text in response", modeladapter.ErrUnexpectedResponse)
	}

	if resp.Usage != nil {
		a.Usage.Add(usage.TokenCount{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
		})
	}

	out.Text = strings.TrimSpace(resp.Choices[0].Text)

	return out, nil
}

func (a *Adapter) client(rec *modeladapter.Recorder) *goopenai.Client {
	cfg := goopenai.DefaultConfig(a.Auth.Key)
	if a.BaseURL != "" {
		cfg.BaseURL = a.BaseURL
	}
	cfg.OrgID = a.Auth.Organization
	cfg.HTTPClient = a.RecordingClient(rec)

	return goopenai.NewClientWithConfig(cfg)
}

// firstChoice is the part of the wire response whose shape is checked.
type firstChoice struct {
	Choices []struct {
		Text *string `json:"text"`
	} `json:"choices"`
}

// hasFirstText reports whether body carries a string text field on its
// first choice.
func hasFirstText(body []byte) bool {
	var fc firstChoice
	if err := json.Unmarshal(body, &fc); err != nil {
		return false
	}

	return len(fc.Choices) > 0 && fc.Choices[0].Text != nil
}

// rawPayload returns the inbound body as received, falling back to the
// decoded response when the body is not valid JSON.
func rawPayload(body []byte, resp goopenai.CompletionResponse) any {
	if json.Valid(body) {
		return json.RawMessage(body)
	}

	return resp
}

func buildRequest(req modeladapter.Request) goopenai.CompletionRequest {
	temperature := float32(req.Temperature)
	if temperature == 0 {
		// go-openai omits a zero temperature; the smallest non-zero float32
		// keeps it on the wire.
		temperature = math.SmallestNonzeroFloat32
	}

	return goopenai.CompletionRequest{
		Model:       req.Model,
		Prompt:      req.Prompt,
		MaxTokens:   req.MaxTokens,
		Temperature: temperature,
		Stop:        req.Stop,
	}
}
