package sportmonks

import (
	"bytes"
	"encoding/json"
	"fmt"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/football-etl/internal/domain/entity"
)

// node is one JSON object keyed by field name, with values left raw so each
// section can be shape-checked before it is decoded.
type node map[string]json.RawMessage

func parseNode(path string, raw []byte) (node, error) {
	trimmed := bytes.TrimSpace(raw)
	if isNull(trimmed) {
		return nil, entity.NewMalformed(path, "expected object, got null")
	}
	if trimmed[0] != '{' {
		return nil, entity.NewMalformed(path, "expected object, got %s", shapeOf(trimmed))
	}
	var out node
	if err := sonic.Unmarshal(trimmed, &out); err != nil {
		return nil, &entity.MalformedPayloadError{Path: path, Err: err}
	}
	return out, nil
}

func (n node) has(key string) bool {
	raw, ok := n[key]
	return ok && !isNull(bytes.TrimSpace(raw))
}

// first returns the first key present in n, for fields the provider spells
// in more than one way.
func (n node) first(keys ...string) string {
	for _, key := range keys {
		if n.has(key) {
			return key
		}
	}
	return keys[0]
}

// object returns the sub-object at key, unwrapping a {"data": {...}}
// wrapper. Absent or null means ok=false.
func (n node) object(path, key string) (node, bool, error) {
	raw, ok := n[key]
	if !ok {
		return nil, false, nil
	}
	trimmed := bytes.TrimSpace(raw)
	if isNull(trimmed) {
		return nil, false, nil
	}
	if trimmed[0] != '{' {
		return nil, false, entity.NewMalformed(joinPath(path, key), "expected object, got %s", shapeOf(trimmed))
	}

	obj, err := parseNode(joinPath(path, key), trimmed)
	if err != nil {
		return nil, false, err
	}
	if inner, ok := obj["data"]; ok && len(obj) == 1 {
		inner = bytes.TrimSpace(inner)
		if isNull(inner) {
			return nil, false, nil
		}
		if inner[0] != '{' {
			return nil, false, entity.NewMalformed(joinPath(path, key)+".data", "expected object, got %s", shapeOf(inner))
		}
		obj, err = parseNode(joinPath(path, key)+".data", inner)
		if err != nil {
			return nil, false, err
		}
	}
	return obj, true, nil
}

// list returns the items at key, unwrapping a {"data": [...]} wrapper.
// Absent or null yields no items.
func (n node) list(path, key string) ([]json.RawMessage, error) {
	raw, ok := n[key]
	if !ok {
		return nil, nil
	}
	return asList(joinPath(path, key), raw)
}

func asList(path string, raw []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if isNull(trimmed) {
		return nil, nil
	}
	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := sonic.Unmarshal(trimmed, &items); err != nil {
			return nil, &entity.MalformedPayloadError{Path: path, Err: err}
		}
		return items, nil
	case '{':
		var wrapped node
		if err := sonic.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, &entity.MalformedPayloadError{Path: path, Err: err}
		}
		inner, ok := wrapped["data"]
		if !ok || len(wrapped) != 1 {
			return nil, entity.NewMalformed(path, "expected list, got object")
		}
		inner = bytes.TrimSpace(inner)
		if len(inner) > 0 && inner[0] != '[' && !isNull(inner) {
			return nil, entity.NewMalformed(path+".data", "expected list, got %s", shapeOf(inner))
		}
		return asList(path+".data", inner)
	default:
		return nil, entity.NewMalformed(path, "expected list, got %s", shapeOf(trimmed))
	}
}

// into decodes n into target, reporting scalar type mismatches as malformed.
func (n node) into(path string, target any) error {
	raw, err := sonic.Marshal(n)
	if err != nil {
		return &entity.MalformedPayloadError{Path: path, Err: err}
	}
	return decodeInto(path, raw, target)
}

func decodeInto(path string, raw []byte, target any) error {
	if err := sonic.Unmarshal(raw, target); err != nil {
		return &entity.MalformedPayloadError{Path: path, Err: err}
	}
	return nil
}

func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

func indexPath(parent string, i int) string {
	return fmt.Sprintf("%s[%d]", parent, i)
}
