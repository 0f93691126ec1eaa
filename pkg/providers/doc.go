// Package providers groups the concrete completion adapters.
//
// Each sub-package implements [github.com/germanamz/completions/pkg/modeladapter.Completer]
// for one remote API:
//   - [github.com/germanamz/completions/pkg/providers/openai] — OpenAI legacy Completions API
package providers
