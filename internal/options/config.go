package options

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// LoadRawJSON decodes a JSON config document (e.g. a `bundle.config.json`)
// into a RawOptions overlay ready for DeepMerge.
func LoadRawJSON(data []byte) (RawOptions, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// LoadRawYAML decodes a YAML config document into the same RawOptions
// shape. Projects in this corpus that keep their other tool config in YAML
// (cuemby-gor, BrianLeishman-hugo, onedusk-pd) expect the bundler's own
// config to be readable the same way, so yaml.v3's generic decode target
// (map[string]interface{}) is normalized through a JSON round-trip to
// collapse yaml.v3's map[string]interface{} keys into the same shape
// DeepMerge already understands.
func LoadRawYAML(data []byte) (RawOptions, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	normalized, err := json.Marshal(normalizeYAML(doc))
	if err != nil {
		return nil, err
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(normalized, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// normalizeYAML converts the map[string]interface{} that yaml.v3 already
// produces (modern yaml.v3 decodes YAML mappings with string keys directly
// into Go string keys, unlike older yaml.v2) into a form safe to feed to
// encoding/json, recursing through slices.
func normalizeYAML(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = normalizeYAML(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = normalizeYAML(val)
		}
		return out
	default:
		return v
	}
}
