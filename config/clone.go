// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/clone.go
// Summary: Deep copies of config maps.

package config

// Clone returns a deep copy of cfg. Sections, nested maps and lists are
// copied so the clone can be edited freely.
func Clone(cfg Config) Config {
	if cfg == nil {
		return nil
	}
	clone := make(Config, len(cfg))
	for name, v := range cfg {
		clone[name] = cloneValue(v)
	}
	return clone
}

// cloneValue copies JSON-shaped values, keeping their map types.
func cloneValue(v interface{}) interface{} {
	switch v := v.(type) {
	case Section:
		return Section(cloneMap(v))
	case map[string]interface{}:
		return cloneMap(v)
	case []interface{}:
		out := make([]interface{}, len(v))
		for i := range v {
			out[i] = cloneValue(v[i])
		}
		return out
	default:
		return v
	}
}

func cloneMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}
