/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"math"
)

// State is a session's game state. It only ever holds JSON-shaped values:
// map[string]any, []any, float64, string, bool and nil. Inbound payloads
// pass through normalize before they are stored.
type State map[string]any

// Merge shallowly overlays src onto s. Keys missing from src keep their
// current values.
func (s State) Merge(src map[string]any) {
	for k, v := range src {
		s[k] = normalize(v)
	}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	if s == nil {
		return nil
	}
	return State(cloneValue(map[string]any(s)).(map[string]any))
}

func (s State) Number(key string) float64 {
	n, _ := toNumber(s[key])
	return n
}

func (s State) Bool(key string) bool {
	b, _ := s[key].(bool)
	return b
}

func (s State) Text(key string) string {
	str, _ := s[key].(string)
	return str
}

func (s State) List(key string) []any {
	l, _ := s[key].([]any)
	return l
}

// Object returns the nested object at key, creating it when absent or of
// the wrong shape.
func (s State) Object(key string) State {
	if m, ok := s[key].(map[string]any); ok {
		return State(m)
	}
	m := map[string]any{}
	s[key] = m
	return State(m)
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = cloneValue(e)
		}
		return out
	case State:
		return cloneValue(map[string]any(t))
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// normalize converts decoded wire values into the shapes State stores.
// JSON already decodes this way; msgpack yields sized integers, typed
// slices and interface-keyed maps.
func normalize(v any) any {
	switch t := v.(type) {
	case nil, bool, string, float64:
		return t
	case State:
		return normalize(map[string]any(t))
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalize(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = e
		}
		return out
	case []byte:
		return string(t)
	default:
		if n, ok := toNumber(v); ok {
			return n
		}
		return fmt.Sprint(v)
	}
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// asObject returns v as an object if it is one.
func asObject(v any) (State, bool) {
	switch m := normalize(v).(type) {
	case map[string]any:
		return State(m), true
	default:
		return nil, false
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
