// Package usage records token counts reported by the completion endpoint.
package usage

import (
	"fmt"
	"log/slog"
)

// TokenCount holds prompt and completion token counts for a single call.
type TokenCount struct {
	PromptTokens     int
	CompletionTokens int
}

// Total returns the sum of prompt and completion tokens.
func (tc TokenCount) Total() int {
	return tc.PromptTokens + tc.CompletionTokens
}

// String renders the count as "prompt=N completion=N total=N".
func (tc TokenCount) String() string {
	return fmt.Sprintf("prompt=%d completion=%d total=%d", tc.PromptTokens, tc.CompletionTokens, tc.Total())
}

// LogValue groups the counts under one slog attribute.
func (tc TokenCount) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("prompt", tc.PromptTokens),
		slog.Int("completion", tc.CompletionTokens),
		slog.Int("total", tc.Total()),
	)
}

func (tc TokenCount) plus(o TokenCount) TokenCount {
	return TokenCount{
		PromptTokens:     tc.PromptTokens + o.PromptTokens,
		CompletionTokens: tc.CompletionTokens + o.CompletionTokens,
	}
}

// Tracker keeps a running sum of the counts reported during one session,
// along with the most recent report. Calls that reported no usage are not
// counted. The zero value is ready to use; it is not safe for concurrent use.
type Tracker struct {
	calls int
	last  TokenCount
	sum   TokenCount
}

// Add records the counts reported by one call.
func (t *Tracker) Add(tc TokenCount) {
	t.calls++
	t.last = tc
	t.sum = t.sum.plus(tc)
}

// Last returns the counts of the most recent call, or false if none was
// recorded.
func (t *Tracker) Last() (TokenCount, bool) {
	return t.last, t.calls > 0
}

// Total returns the counts summed over every recorded call.
func (t *Tracker) Total() TokenCount { return t.sum }

// Count returns how many calls reported usage.
func (t *Tracker) Count() int { return t.calls }
