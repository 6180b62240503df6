package sportmonks

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
)

// The provider is loose about scalar types: ids arrive as numbers or numeric
// strings, flags as booleans or 0/1. The opt* types accept every form seen
// and reject only structured values.

type optInt struct {
	Value int64
	Set   bool
}

func (o *optInt) UnmarshalJSON(data []byte) error {
	*o = optInt{}
	trimmed := bytes.TrimSpace(data)
	switch {
	case isNull(trimmed):
		return nil
	case isStructured(trimmed):
		return fmt.Errorf("expected integer, got %s", shapeOf(trimmed))
	case trimmed[0] == '"':
		var s string
		if err := sonic.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		if v, ok := parseIntText(s); ok {
			*o = optInt{Value: v, Set: true}
		}
		return nil
	case trimmed[0] == 't' || trimmed[0] == 'f':
		*o = optInt{Value: boolToInt(trimmed[0] == 't'), Set: true}
		return nil
	default:
		if v, ok := parseIntText(string(trimmed)); ok {
			*o = optInt{Value: v, Set: true}
		}
		return nil
	}
}

func (o optInt) Ptr() *int64 {
	if !o.Set {
		return nil
	}
	v := o.Value
	return &v
}

// ID returns the value, or zero when unset.
func (o optInt) ID() int64 {
	if !o.Set {
		return 0
	}
	return o.Value
}

type optFloat struct {
	Value float64
	Set   bool
}

func (o *optFloat) UnmarshalJSON(data []byte) error {
	*o = optFloat{}
	trimmed := bytes.TrimSpace(data)
	switch {
	case isNull(trimmed):
		return nil
	case isStructured(trimmed):
		return fmt.Errorf("expected number, got %s", shapeOf(trimmed))
	case trimmed[0] == '"':
		var s string
		if err := sonic.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "%")
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*o = optFloat{Value: v, Set: true}
		}
		return nil
	case trimmed[0] == 't' || trimmed[0] == 'f':
		return fmt.Errorf("expected number, got boolean")
	default:
		v, err := strconv.ParseFloat(string(trimmed), 64)
		if err != nil {
			return fmt.Errorf("parse number %q: %w", trimmed, err)
		}
		*o = optFloat{Value: v, Set: true}
		return nil
	}
}

func (o optFloat) Ptr() *float64 {
	if !o.Set {
		return nil
	}
	v := o.Value
	return &v
}

type optString struct {
	Value string
	Set   bool
}

func (o *optString) UnmarshalJSON(data []byte) error {
	*o = optString{}
	trimmed := bytes.TrimSpace(data)
	switch {
	case isNull(trimmed):
		return nil
	case isStructured(trimmed):
		return fmt.Errorf("expected string, got %s", shapeOf(trimmed))
	case trimmed[0] == '"':
		var s string
		if err := sonic.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*o = optString{Value: s, Set: true}
		return nil
	default:
		*o = optString{Value: string(trimmed), Set: true}
		return nil
	}
}

func (o optString) Ptr() *string {
	if !o.Set {
		return nil
	}
	v := o.Value
	return &v
}

type optBool struct {
	Value bool
	Set   bool
}

func (o *optBool) UnmarshalJSON(data []byte) error {
	*o = optBool{}
	trimmed := bytes.TrimSpace(data)
	switch {
	case isNull(trimmed):
		return nil
	case isStructured(trimmed):
		return fmt.Errorf("expected boolean, got %s", shapeOf(trimmed))
	case trimmed[0] == '"':
		var s string
		if err := sonic.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "1", "yes", "y":
			*o = optBool{Value: true, Set: true}
		case "false", "0", "no", "n":
			*o = optBool{Value: false, Set: true}
		}
		return nil
	case trimmed[0] == 't' || trimmed[0] == 'f':
		*o = optBool{Value: trimmed[0] == 't', Set: true}
		return nil
	default:
		v, err := strconv.ParseFloat(string(trimmed), 64)
		if err != nil {
			return fmt.Errorf("parse boolean %q: %w", trimmed, err)
		}
		*o = optBool{Value: v != 0, Set: true}
		return nil
	}
}

func (o optBool) Ptr() *bool {
	if !o.Set {
		return nil
	}
	v := o.Value
	return &v
}

func parseIntText(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return v, true
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return int64(f), true
	}
	return 0, false
}

func boolToInt(v bool) int64 {
	if v {
		return 1
	}
	return 0
}

func isNull(data []byte) bool {
	return len(data) == 0 || bytes.Equal(data, []byte("null"))
}

func isStructured(data []byte) bool {
	return len(data) > 0 && (data[0] == '{' || data[0] == '[')
}

func shapeOf(data []byte) string {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return "empty"
	}
	switch data[0] {
	case '{':
		return "object"
	case '[':
		return "list"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}
