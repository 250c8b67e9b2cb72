package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// orderedField is one key/value pair read off a JSON object in source order.
type orderedField struct {
	Key   string
	Value json.RawMessage
}

// decodeOrderedObject walks a JSON object's raw bytes preserving declaration
// order, which a plain map[string]json.RawMessage unmarshal would lose. This
// is what lets the normalizer keep vendor extensions (x-*) in the order the
// author wrote them (spec §4.2 "Extension handling").
func decodeOrderedObject(raw json.RawMessage) ([]orderedField, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var fields []orderedField
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected string key, got %v", keyTok)
		}
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		fields = append(fields, orderedField{Key: key, Value: val})
	}
	return fields, nil
}

// splitExtensions partitions an ordered field list three ways: known keys
// (their raw values written through the pointers in known), x-* extensions
// (decoded into a map, with their declaration order preserved in extKeys),
// and every other field (returned in unknown, for the caller to route into
// typed fields).
func splitExtensions(fields []orderedField, known map[string]*json.RawMessage) (extKeys []string, ext map[string]interface{}, unknown []orderedField) {
	ext = map[string]interface{}{}
	for _, f := range fields {
		if dst, ok := known[f.Key]; ok {
			*dst = f.Value
			continue
		}
		if strings.HasPrefix(f.Key, "x-") {
			var v interface{}
			if err := json.Unmarshal(f.Value, &v); err == nil {
				ext[f.Key] = v
				extKeys = append(extKeys, f.Key)
			}
			continue
		}
		unknown = append(unknown, f)
	}
	return extKeys, ext, unknown
}
