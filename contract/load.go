package contract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrNotObject is returned when a document does not decode to an object.
var ErrNotObject = errors.New("document is not an object")

// FormatForPath picks the encoding from the file extension. Anything that is
// not .yaml/.yml is read as JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode decodes a document into a generic object.
// A JSON/YAML null decodes to an empty object.
func Decode(data []byte, format Format) (map[string]any, error) {
	var doc any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	}
	if doc == nil {
		return map[string]any{}, nil
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return obj, nil
}

// Parse decodes a capability contract.
func Parse(name string, data []byte, format Format) (*Contract, error) {
	raw, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("contract %s: %w", name, err)
	}
	return New(name, raw), nil
}

// Load reads and decodes a capability contract file.
func Load(path string) (*Contract, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read contract: %w", err)
	}
	return Parse(path, data, FormatForPath(path))
}

// LoadManifest reads and decodes a scene manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	raw, err := Decode(data, FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return NewManifest(path, raw), nil
}
