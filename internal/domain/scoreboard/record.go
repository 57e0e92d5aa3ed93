package scoreboard

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Record is an untrusted upstream object. Every accessor returns absent
// rather than failing when a field is missing or has an unexpected type.
//
// Paths are dot separated; numeric segments index into arrays, so
// "header.competitions.0.competitors" is valid.
type Record struct {
	fields map[string]any
}

func Wrap(fields map[string]any) Record {
	return Record{fields: fields}
}

func (r Record) IsEmpty() bool {
	return len(r.fields) == 0
}

func (r Record) Lookup(path string) (any, bool) {
	if r.fields == nil || path == "" {
		return nil, false
	}

	var current any = r.fields
	for _, segment := range strings.Split(path, ".") {
		switch typed := current.(type) {
		case map[string]any:
			next, ok := typed[segment]
			if !ok || next == nil {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(typed) || typed[idx] == nil {
				return nil, false
			}
			current = typed[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

func (r Record) Has(path string) bool {
	_, ok := r.Lookup(path)
	return ok
}

// String returns a non-blank string field, trimmed.
func (r Record) String(path string) (string, bool) {
	raw, ok := r.Lookup(path)
	if !ok {
		return "", false
	}
	value, ok := raw.(string)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

// FirstString walks paths in order and returns the first non-blank string.
func (r Record) FirstString(paths ...string) (string, bool) {
	for _, path := range paths {
		if value, ok := r.String(path); ok {
			return value, true
		}
	}
	return "", false
}

// ID returns an identifier that the feed may encode as a string or a number.
func (r Record) ID(path string) (string, bool) {
	raw, ok := r.Lookup(path)
	if !ok {
		return "", false
	}
	switch typed := raw.(type) {
	case string:
		typed = strings.TrimSpace(typed)
		return typed, typed != ""
	case float64:
		if math.IsNaN(typed) || math.IsInf(typed, 0) || typed == 0 {
			return "", false
		}
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case int:
		return strconv.Itoa(typed), typed != 0
	case int64:
		return strconv.FormatInt(typed, 10), typed != 0
	case json.Number:
		return typed.String(), typed.String() != ""
	default:
		return "", false
	}
}

// Records returns the array at path. Elements that are not objects become
// empty records so positions stay aligned.
func (r Record) Records(path string) []Record {
	raw, ok := r.Lookup(path)
	if !ok {
		return nil
	}
	return toRecords(raw)
}

func toRecords(raw any) []Record {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]Record, 0, len(items))
	for _, item := range items {
		fields, _ := item.(map[string]any)
		out = append(out, Record{fields: fields})
	}
	return out
}

// ToNumber converts loosely typed feed values. Blank strings are absent.
func ToNumber(raw any) (float64, bool) {
	var value float64
	switch typed := raw.(type) {
	case float64:
		value = typed
	case float32:
		value = float64(typed)
	case int:
		value = float64(typed)
	case int64:
		value = float64(typed)
	case json.Number:
		parsed, err := typed.Float64()
		if err != nil {
			return 0, false
		}
		value = parsed
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, false
		}
		value = parsed
	default:
		return 0, false
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}
