package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
)

// readPayloads accepts a JSON array of items, a provider response with the
// item or items under "data", or a single object.
func readPayloads(r io.Reader) ([]json.RawMessage, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("input is empty")
	}

	switch raw[0] {
	case '[':
		var items []json.RawMessage
		if err := sonic.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decode input array: %w", err)
		}
		return items, nil
	case '{':
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := sonic.Unmarshal(raw, &envelope); err != nil {
			return nil, fmt.Errorf("decode input object: %w", err)
		}
		data := bytes.TrimSpace(envelope.Data)
		switch {
		case len(data) == 0:
			return []json.RawMessage{raw}, nil
		case data[0] == '[':
			return readPayloads(bytes.NewReader(data))
		case data[0] == '{':
			return []json.RawMessage{json.RawMessage(data)}, nil
		default:
			return []json.RawMessage{raw}, nil
		}
	default:
		return nil, fmt.Errorf("input must be a JSON array or object")
	}
}

// parseDay reads a date flag as YYYY-MM-DD or RFC 3339. Empty means unset.
func parseDay(flag, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("--%s must be YYYY-MM-DD or RFC 3339, got %q", flag, raw)
}
