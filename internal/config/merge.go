package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// readDocument decodes one configuration file into a generic map.
func readDocument(path string) (map[string]any, error) {
	// #nosec G304 - path is provided by caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc := map[string]any{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%s: unsupported configuration format %q", path, filepath.Ext(path))
	}
	return doc, nil
}

// mergeMaps merges src into dst. Nested maps merge recursively; any other
// value in src replaces the one in dst.
func mergeMaps(dst, src map[string]any) map[string]any {
	for k, v := range src {
		if srcMap, ok := v.(map[string]any); ok {
			if dstMap, ok := dst[k].(map[string]any); ok {
				dst[k] = mergeMaps(dstMap, srcMap)
				continue
			}
		}
		dst[k] = v
	}
	return dst
}

var placeholderPattern = regexp.MustCompile(`\{\{\s*([^{}]+?)\s*\}\}`)

// expandPlaceholders replaces {{key}} inside string values with the value of
// the top-level string key of the same name.
func expandPlaceholders(doc map[string]any) error {
	vars := make(map[string]string)
	for k, v := range doc {
		if s, ok := v.(string); ok {
			vars[k] = s
		}
	}

	var walk func(v any) (any, error)
	walk = func(v any) (any, error) {
		switch val := v.(type) {
		case string:
			return expandString(val, vars)
		case map[string]any:
			for k, item := range val {
				expanded, err := walk(item)
				if err != nil {
					return nil, err
				}
				val[k] = expanded
			}
			return val, nil
		case []any:
			for i, item := range val {
				expanded, err := walk(item)
				if err != nil {
					return nil, err
				}
				val[i] = expanded
			}
			return val, nil
		case []map[string]any:
			for _, item := range val {
				if _, err := walk(item); err != nil {
					return nil, err
				}
			}
			return val, nil
		default:
			return v, nil
		}
	}

	_, err := walk(doc)
	return err
}

func expandString(s string, vars map[string]string) (string, error) {
	var missing string
	out := placeholderPattern.ReplaceAllStringFunc(s, func(m string) string {
		key := placeholderPattern.FindStringSubmatch(m)[1]
		v, ok := vars[key]
		if !ok {
			if missing == "" {
				missing = key
			}
			return m
		}
		return v
	})
	if missing != "" {
		return "", fmt.Errorf("unknown placeholder {{%s}} in %q", missing, s)
	}
	return out, nil
}
