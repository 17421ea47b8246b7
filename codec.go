package forms

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Codec decodes a raw watcher payload into the value shape the control
// tree accepts: maps for groups, slices for arrays, scalars for fields.
// Implement it to feed trees from formats beyond JSON and YAML.
type Codec interface {
	// Unmarshal deserializes bytes into v.
	Unmarshal(data []byte, v any) error

	// ContentType returns the payload MIME type for observability.
	ContentType() string
}

// JSONCodec decodes JSON payloads. JSON objects and arrays decode to
// map[string]any and []any, matching composite value shapes directly.
type JSONCodec struct{}

// Unmarshal deserializes JSON bytes into v.
func (JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// ContentType returns the JSON MIME type.
func (JSONCodec) ContentType() string {
	return "application/json"
}

var _ Codec = JSONCodec{}

// YAMLCodec decodes YAML payloads via gopkg.in/yaml.v3.
type YAMLCodec struct{}

// Unmarshal deserializes YAML bytes into v.
func (YAMLCodec) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

// ContentType returns the YAML MIME type.
func (YAMLCodec) ContentType() string {
	return "application/x-yaml"
}

var _ Codec = YAMLCodec{}
