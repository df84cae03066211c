package config

import (
	_ "embed"
	"errors"
)

//go:embed defaults.yaml
var defaultConfig []byte

// DefaultContent returns the embedded default configuration, suitable as
// a starting point for a user config file.
func DefaultContent() string {
	return string(defaultConfig)
}

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}
