// Package modeladapter defines the interface and types for text completion adapters.
//
// It contains:
//   - [Completer] interface with the [Request] and [Response] records exchanged through it
//   - [ErrRemoteAPI] and [ErrUnexpectedResponse], the failure classes every adapter reports
//   - embeddable [ModelAdapter] base struct with auth, base URL, HTTP client and custom headers
//   - [Middleware] wrappers for logging and per-call timeouts
//   - [github.com/germanamz/completions/pkg/modeladapter/usage] — token usage tracker
//
// This package contains no provider-specific code — concrete adapters live in
// separate packages that import modeladapter.
package modeladapter
