package chathub

import (
	"encoding/json"
	"strings"
)

func decodeInto(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return ErrEmptyPayload
	}
	return json.Unmarshal(raw, v)
}

// decodeID accepts either a bare JSON string or an object carrying one of keys.
func decodeID(raw json.RawMessage, keys ...string) (string, error) {
	if len(raw) == 0 {
		return "", ErrEmptyPayload
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			return "", ErrMissingID
		}
		return s, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", err
	}
	for _, k := range keys {
		v, ok := obj[k]
		if !ok {
			continue
		}
		if err := json.Unmarshal(v, &s); err == nil && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s), nil
		}
	}
	return "", ErrMissingID
}
