package kg

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// MarshalJSON writes items keyed in Categories order.
func (tc TypeCategories) MarshalJSON() ([]byte, error) {
	categories := tc.Categories
	if categories == nil {
		categories = []string{}
	}

	var buf bytes.Buffer
	buf.WriteString(`{"categories":`)
	if err := writeJSON(&buf, categories); err != nil {
		return nil, err
	}
	buf.WriteString(`,"items":{`)
	for i, key := range itemKeys(tc) {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(&buf, key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSON(&buf, tc.Items[key]); err != nil {
			return nil, err
		}
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

// itemKeys lists Items keys in Categories order, followed by any keys
// Categories does not name, sorted.
func itemKeys(tc TypeCategories) []string {
	keys := make([]string, 0, len(tc.Items))
	listed := make(map[string]bool, len(tc.Categories))
	for _, c := range tc.Categories {
		if _, ok := tc.Items[c]; ok && !listed[c] {
			listed[c] = true
			keys = append(keys, c)
		}
	}
	var rest []string
	for k := range tc.Items {
		if !listed[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// MarshalJSON writes one key per type in Types order.
func (idx CategoryIndex) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, typ := range idx.Types {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(&buf, typ); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		entry := idx.ByType[typ]
		if entry == nil {
			entry = &TypeCategories{}
		}
		if err := writeJSON(&buf, entry); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a categories.json object, keeping key order in Types.
func (idx *CategoryIndex) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("category index: expected object, got %v", tok)
	}

	out := CategoryIndex{ByType: make(map[string]*TypeCategories)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		typ, ok := tok.(string)
		if !ok {
			return fmt.Errorf("category index: expected type name, got %v", tok)
		}
		var entry TypeCategories
		if err := dec.Decode(&entry); err != nil {
			return fmt.Errorf("category index %q: %w", typ, err)
		}
		if _, dup := out.ByType[typ]; !dup {
			out.Types = append(out.Types, typ)
		}
		out.ByType[typ] = &entry
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*idx = out
	return nil
}

// writeJSON appends v without HTML escaping or a trailing newline.
func writeJSON(buf *bytes.Buffer, v any) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}
