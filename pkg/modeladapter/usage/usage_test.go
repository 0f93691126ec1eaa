package usage_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/germanamz/completions/pkg/modeladapter/usage"
	"github.com/stretchr/testify/assert"
)

func TestTokenCount_Total(t *testing.T) {
	tc := usage.TokenCount{PromptTokens: 100, CompletionTokens: 50}
	assert.Equal(t, 150, tc.Total())
}

func TestTokenCount_String(t *testing.T) {
	tc := usage.TokenCount{PromptTokens: 12, CompletionTokens: 3}
	assert.Equal(t, "prompt=12 completion=3 total=15", tc.String())
}

func TestTracker_Add_And_Count(t *testing.T) {
	var tr usage.Tracker

	assert.Equal(t, 0, tr.Count())

	tr.Add(usage.TokenCount{PromptTokens: 10, CompletionTokens: 5})
	assert.Equal(t, 1, tr.Count())

	tr.Add(usage.TokenCount{PromptTokens: 20, CompletionTokens: 10})
	assert.Equal(t, 2, tr.Count())
}

func TestTracker_Last_Empty(t *testing.T) {
	var tr usage.Tracker

	tc, ok := tr.Last()
	assert.False(t, ok)
	assert.Equal(t, usage.TokenCount{}, tc)
}

func TestTracker_Last(t *testing.T) {
	var tr usage.Tracker

	tr.Add(usage.TokenCount{PromptTokens: 10, CompletionTokens: 5})
	tr.Add(usage.TokenCount{PromptTokens: 20, CompletionTokens: 10})

	tc, ok := tr.Last()
	assert.True(t, ok)
	assert.Equal(t, usage.TokenCount{PromptTokens: 20, CompletionTokens: 10}, tc)
}

func TestTracker_Total(t *testing.T) {
	var tr usage.Tracker

	assert.Equal(t, usage.TokenCount{}, tr.Total())

	tr.Add(usage.TokenCount{PromptTokens: 10, CompletionTokens: 5})
	tr.Add(usage.TokenCount{PromptTokens: 20, CompletionTokens: 10})

	assert.Equal(t, usage.TokenCount{PromptTokens: 30, CompletionTokens: 15}, tr.Total())
}

func TestTokenCount_LogValue(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	log.Info("call", "usage", usage.TokenCount{PromptTokens: 7, CompletionTokens: 2})

	out := buf.String()
	assert.Contains(t, out, "usage.prompt=7")
	assert.Contains(t, out, "usage.completion=2")
	assert.Contains(t, out, "usage.total=9")
}
