package modeladapter

import (
	"context"
	"log/slog"
	"time"

	"github.com/germanamz/completions/pkg/modeladapter/usage"
)

// Middleware wraps a Completer, returning a new Completer with added behaviour.
type Middleware func(next Completer) Completer

// Chain applies middlewares to c. The first middleware is the outermost.
func Chain(c Completer, mws ...Middleware) Completer {
	for i := len(mws) - 1; i >= 0; i-- {
		c = mws[i](c)
	}

	return c
}

// --- Timeout middleware ---

// Timeout returns a Middleware that bounds each call with a deadline.
// A zero or negative duration leaves the context untouched.
func Timeout(d time.Duration) Middleware {
	return func(next Completer) Completer {
		if d <= 0 {
			return next
		}

		return CompleterFunc(func(ctx context.Context, req Request) (Response, error) {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()

			return next.Complete(ctx, req)
		})
	}
}

// --- Logger middleware ---

// Logger returns a Middleware that logs each call's model, prompt size,
// duration and error.
func Logger(log *slog.Logger) Middleware {
	return func(next Completer) Completer {
		return CompleterFunc(func(ctx context.Context, req Request) (Response, error) {
			log.DebugContext(ctx, "completion started",
				"model", req.Model,
				"prompt_chars", len(req.Prompt),
				"prompt_tokens_est", EstimateTokens(req.Prompt),
				"max_tokens", req.MaxTokens,
			)

			start := time.Now()

			resp, err := next.Complete(ctx, req)

			duration := time.Since(start)

			if err != nil {
				log.ErrorContext(ctx, "completion failed",
					"model", req.Model,
					"duration", duration,
					"error", err,
				)
			} else {
				log.DebugContext(ctx, "completion finished",
					"model", req.Model,
					"duration", duration,
					"reply_chars", len(resp.Text),
				)
			}

			return resp, err
		})
	}
}

// --- Usage middleware ---

// UsageLogger returns a Middleware that logs, at debug level, the token
// counts a successful call added to tracker. Calls whose response carried no
// usage are logged without counts.
func UsageLogger(log *slog.Logger, tracker *usage.Tracker) Middleware {
	return func(next Completer) Completer {
		return CompleterFunc(func(ctx context.Context, req Request) (Response, error) {
			before := tracker.Count()

			resp, err := next.Complete(ctx, req)
			if err != nil {
				return resp, err
			}

			last, ok := tracker.Last()
			if !ok || tracker.Count() == before {
				log.DebugContext(ctx, "completion usage unreported", "model", req.Model)
				return resp, nil
			}

			log.DebugContext(ctx, "completion usage",
				"model", req.Model,
				"usage", last,
				"session_total", tracker.Total().Total(),
			)

			return resp, nil
		})
	}
}
