package oplog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces a byte-stable JSON encoding of a log, batch,
// operation, or plain value.
//
// Differences from standard json.Marshal:
//  1. Object keys are sorted
//  2. Strings are NFC normalized and never HTML-escaped
//  3. Datetimes are RFC 3339 UTC
//  4. Floats use the shortest round-trip representation
//  5. Empty/zero operation fields are omitted
//
// Two logs with identical contents always marshal to identical bytes, which
// is what golden tests and log-diffing consumers rely on.
func MarshalCanonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case Log:
		return writeCanonicalArray(buf, toAnySlice(val))
	case Batch:
		return writeCanonicalMap(buf, val.canonicalMap())
	case Operation:
		return writeCanonicalMap(buf, val.canonicalMap())
	case map[string]any:
		return writeCanonicalMap(buf, val)
	case []any:
		return writeCanonicalArray(buf, val)
	case string:
		return writeCanonicalString(buf, val)
	case Kind:
		return writeCanonicalString(buf, string(val))
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case int:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
		return nil
	case int64:
		buf.WriteString(strconv.FormatInt(val, 10))
		return nil
	case float64:
		buf.WriteString(strconv.FormatFloat(val, 'g', -1, 64))
		return nil
	case time.Time:
		return writeCanonicalString(buf, val.UTC().Format(time.RFC3339))
	case nil:
		buf.WriteString("null")
		return nil
	default:
		return fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
}

func writeCanonicalMap(buf *bytes.Buffer, m map[string]any) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeCanonicalString(buf, k); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := writeCanonical(buf, m[k]); err != nil {
			return fmt.Errorf("key %q: %w", k, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeCanonicalArray(buf *bytes.Buffer, arr []any) error {
	buf.WriteByte('[')
	for i, elem := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeCanonical(buf, elem); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
	}
	buf.WriteByte(']')
	return nil
}

// writeCanonicalString emits an NFC-normalized JSON string with HTML
// escaping disabled (< > & stay literal).
func writeCanonicalString(buf *bytes.Buffer, s string) error {
	normalized := norm.NFC.String(s)

	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return err
	}
	// json.Encoder adds a trailing newline, drop it.
	out := tmp.Bytes()
	if len(out) > 0 && out[len(out)-1] == '\n' {
		out = out[:len(out)-1]
	}
	buf.Write(out)
	return nil
}

// canonicalMap renders a batch with its operations expanded.
func (b Batch) canonicalMap() map[string]any {
	ops := make([]any, len(b.Operations))
	for i, op := range b.Operations {
		ops[i] = op.canonicalMap()
	}
	return map[string]any{
		"index":      b.Index,
		"operations": ops,
	}
}

// canonicalMap renders an operation with zero-valued fields omitted.
func (o Operation) canonicalMap() map[string]any {
	m := map[string]any{
		"kind":      string(o.Kind),
		"timestamp": o.Timestamp,
	}
	if o.NodeID != "" {
		m["node_id"] = o.NodeID
	}
	if o.NodeType != "" {
		m["node_type"] = o.NodeType
	}
	if o.EdgeID != "" {
		m["edge_id"] = o.EdgeID
	}
	if o.EdgeType != "" {
		m["edge_type"] = o.EdgeType
	}
	if o.SourceID != "" {
		m["source_id"] = o.SourceID
	}
	if o.TargetID != "" {
		m["target_id"] = o.TargetID
	}
	if len(o.Properties) > 0 {
		props := make(map[string]any, len(o.Properties))
		for k, v := range o.Properties {
			props[k] = v
		}
		m["properties"] = props
	}
	if o.Property != "" {
		m["property"] = o.Property
		m["value"] = o.Value
	}
	return m
}

func toAnySlice(l Log) []any {
	out := make([]any, len(l))
	for i, b := range l {
		out[i] = b
	}
	return out
}
