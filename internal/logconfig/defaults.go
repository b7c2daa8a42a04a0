package logconfig

import (
	_ "embed"
)

// Default file names within the assets layout.
const (
	DefaultConfigFileName = "config.yaml"
)

// defaultConfig contains the embedded default logging document. It is what
// 'rovers init' writes to disk when no document exists yet.
//
//go:embed default_config.yaml
var defaultConfig []byte

// DefaultDocument returns a copy of the embedded default document.
func DefaultDocument() []byte {
	return append([]byte(nil), defaultConfig...)
}
