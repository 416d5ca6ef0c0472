package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var errUnexpectedShape = errors.New("unexpected response shape")

// decodeList normalizes a list response. The backend answers either with a
// bare array or with an object carrying the array under one of keys. An
// object that is itself a record (it has an "_id") becomes a one-element
// list; any other object yields an empty list.
func decodeList[T any](body []byte, keys ...string) ([]T, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return []T{}, nil
	}

	switch body[0] {
	case '[':
		var out []T
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		if out == nil {
			out = []T{}
		}
		return out, nil
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(body, &obj); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		for _, k := range keys {
			raw, ok := obj[k]
			if !ok {
				continue
			}
			raw = bytes.TrimSpace(raw)
			if len(raw) == 0 || raw[0] != '[' {
				continue
			}
			var out []T
			if err := json.Unmarshal(raw, &out); err != nil {
				return nil, fmt.Errorf("decode list %q: %w", k, err)
			}
			if out == nil {
				out = []T{}
			}
			return out, nil
		}
		if _, ok := obj["_id"]; ok {
			var one T
			if err := json.Unmarshal(body, &one); err != nil {
				return nil, fmt.Errorf("decode record: %w", err)
			}
			return []T{one}, nil
		}
		return []T{}, nil
	default:
		return nil, errUnexpectedShape
	}
}

// decodeOne normalizes a single-record response, which is either the
// record itself or an object wrapping it under one of keys.
func decodeOne[T any](body []byte, keys ...string) (T, error) {
	var zero T
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return zero, errUnexpectedShape
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return zero, fmt.Errorf("decode record: %w", err)
	}
	for _, k := range keys {
		raw, ok := obj[k]
		if !ok {
			continue
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '{' {
			continue
		}
		var out T
		if err := json.Unmarshal(raw, &out); err != nil {
			return zero, fmt.Errorf("decode record %q: %w", k, err)
		}
		return out, nil
	}

	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return zero, fmt.Errorf("decode record: %w", err)
	}
	return out, nil
}
