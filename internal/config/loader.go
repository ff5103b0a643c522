package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix environment variables use to override
// configuration values, e.g. RAVEN_MAX_THREADS=4.
const EnvPrefix = "RAVEN"

// Load reads, validates, and decodes the run configuration at path.
//
// The file format is determined by extension: .yaml/.yml for YAML, .json
// for JSON; an unrecognized extension tries YAML then JSON. Environment
// variables prefixed with RAVEN_ override values after the file is parsed.
// Validation runs against the raw document before typed decode so that
// unknown fields are rejected rather than silently dropped.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("permission denied reading config: %s", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return LoadFromBytes(data, path)
}

// LoadFromBytes parses, validates, and decodes raw configuration bytes.
// path is used only for format detection and error messages.
func LoadFromBytes(data []byte, path string) (*Document, error) {
	if len(data) == 0 {
		return nil, errors.New("config file is empty")
	}

	jsonData, err := toJSON(data, path)
	if err != nil {
		return nil, err
	}

	if err := ValidateRaw(jsonData); err != nil {
		return nil, err
	}

	doc, err := decodeWithOverlay(jsonData)
	if err != nil {
		return nil, err
	}

	doc.ApplyDefaults()
	return doc, nil
}

// decodeWithOverlay decodes the validated JSON document into a typed
// Document, then layers environment variable overrides on top via viper so
// operators can tweak a config at deploy time without editing the file.
func decodeWithOverlay(jsonData []byte) (*Document, error) {
	v := viper.New()
	v.SetConfigType("json")
	if err := v.ReadConfig(strings.NewReader(string(jsonData))); err != nil {
		return nil, fmt.Errorf("failed to load config into overlay: %w", err)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var doc Document
	if err := v.Unmarshal(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &doc, nil
}

func toJSON(data []byte, path string) ([]byte, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		var raw any
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid JSON in config: %w", err)
		}
		return data, nil
	case ".yaml", ".yml":
		return yamlToJSON(data)
	default:
		if jsonData, err := yamlToJSON(data); err == nil {
			return jsonData, nil
		}
		var raw any
		if err := json.Unmarshal(data, &raw); err == nil {
			return data, nil
		}
		return nil, fmt.Errorf("failed to parse config (tried YAML and JSON)")
	}
}

func yamlToJSON(data []byte) ([]byte, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid YAML in config: %w", err)
	}
	jsonData, err := json.Marshal(normalizeYAMLMaps(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to convert config to JSON: %w", err)
	}
	return jsonData, nil
}

// normalizeYAMLMaps walks the decoded YAML value recursively, turning any
// map[interface{}]interface{} (what yaml.v3 produces for a mapping with a
// non-string key) into map[string]interface{} so encoding/json never trips
// on non-string keys.
func normalizeYAMLMaps(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalizeYAMLMaps(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = normalizeYAMLMaps(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeYAMLMaps(item)
		}
		return out
	default:
		return val
	}
}
