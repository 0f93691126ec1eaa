// Package credential resolves the API key from an ordered list of sources.
//
// The standard chain checks the OPENAI_API_KEY environment variable first
// and falls back to a JSON file on disk. A source that cannot produce a
// value, for any reason, simply yields nothing and resolution moves on.
package credential

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
)

const (
	// EnvVar is the environment variable holding the API key.
	EnvVar = "OPENAI_API_KEY"

	// FileKey is the JSON key read from the credential file.
	FileKey = "OPENAI_API_KEY"

	// DefaultFile is the fallback credential file.
	DefaultFile = "/opt/mykey.json"
)

// ErrMissingCredential is returned when no source yields a non-empty key.
var ErrMissingCredential = errors.New("credential: OPENAI_API_KEY not found")

// Source produces a credential or reports that it has none.
type Source interface {
	Lookup() (string, bool)
}

// SourceFunc adapts a plain function to the Source interface.
type SourceFunc func() (string, bool)

// Lookup calls the underlying function.
func (f SourceFunc) Lookup() (string, bool) { return f() }

// EnvSource reads a credential from an environment variable.
type EnvSource struct {
	Name string

	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Env returns an EnvSource for the named variable.
func Env(name string) EnvSource {
	return EnvSource{Name: name}
}

// Lookup returns the variable's value. Unset and whitespace-only values
// count as absent. The value is returned as set.
func (s EnvSource) Lookup() (string, bool) {
	lookup := s.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	v, ok := lookup(s.Name)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}

	return v, true
}

// FileSource reads a credential from a string-valued key of a JSON object
// stored at Path.
type FileSource struct {
	Path string
	Key  string
}

// File returns a FileSource for key in the JSON file at path.
func File(path, key string) FileSource {
	return FileSource{Path: path, Key: key}
}

// Lookup returns the trimmed value of the key. A missing or unreadable file,
// malformed JSON, a missing key, a non-string value or a blank value all
// count as absent.
func (s FileSource) Lookup() (string, bool) {
	data, err := os.ReadFile(s.Path) //nolint:gosec // fixed credential path, not user input
	if err != nil {
		return "", false
	}

	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return "", false
	}

	v, ok := obj[s.Key].(string)
	if !ok {
		return "", false
	}

	v = strings.TrimSpace(v)
	if v == "" {
		return "", false
	}

	return v, true
}

// Default returns the standard resolution chain: the OPENAI_API_KEY
// environment variable, then DefaultFile.
func Default() []Source {
	return []Source{
		Env(EnvVar),
		File(DefaultFile, FileKey),
	}
}

// Resolve returns the first credential found in sources, in order.
// Later sources are not consulted once one yields.
func Resolve(sources ...Source) (string, error) {
	for _, s := range sources {
		if v, ok := s.Lookup(); ok {
			return v, nil
		}
	}

	return "", ErrMissingCredential
}
