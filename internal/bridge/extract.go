// Copyright (c) 2025 Tag Sense
// Licensed under the MIT License. See LICENSE file in the project root for details.

package bridge

import (
	"encoding/json"
	"fmt"
	"math"

	"tagsense/cli/internal/bridge/model"
	bridgeerrors "tagsense/cli/internal/errors"
)

// RawReply is a decoded JSON object from a service. No field is assumed present.
type RawReply map[string]any

// parseReply decodes body as a JSON object.
func parseReply(body []byte) (RawReply, error) {
	var anyBody any
	if err := json.Unmarshal(body, &anyBody); err != nil {
		return nil, bridgeerrors.Wrap(bridgeerrors.MalformedResponse, "reply is not valid JSON", err)
	}
	raw, ok := anyBody.(map[string]any)
	if !ok {
		return nil, bridgeerrors.Newf(bridgeerrors.MalformedResponse, "reply is a JSON %s, want an object", jsonKind(anyBody))
	}
	return raw, nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// Bool returns the boolean at key, false when absent or not a boolean.
func (r RawReply) Bool(key string) bool {
	v, _ := r[key].(bool)
	return v
}

// String returns the string at key, nil when absent or not a string.
func (r RawReply) String(key string) *string {
	if v, ok := r[key].(string); ok {
		return &v
	}
	return nil
}

// Int returns the integral number at key, def otherwise.
func (r RawReply) Int(key string, def int) int {
	f, ok := r[key].(float64)
	if !ok || f != math.Trunc(f) || f >= -math.MinInt || f < math.MinInt {
		return def
	}
	return int(f)
}

// Strings returns the string elements of the array at key in order.
// Non-string elements are dropped; absent or non-array yields an empty slice.
func (r RawReply) Strings(key string) []string {
	items, _ := r[key].([]any)
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Records returns the object elements of the array at key in order.
// Non-object elements are dropped; absent or non-array yields an empty slice.
func (r RawReply) Records(key string) []model.Record {
	items, _ := r[key].([]any)
	out := make([]model.Record, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// Record returns the object at key, nil when absent or not an object.
func (r RawReply) Record(key string) model.Record {
	m, _ := r[key].(map[string]any)
	return m
}
