package ragtext

import (
	"bytes"
	"encoding/json"
	"strings"
)

// RenderRecord flattens an arbitrary payload document into searchable text:
// one "key: value" fragment per top-level field in document order, with a
// JSON dump fallback for non-string leaf values. A present source id is
// rendered first.
func RenderRecord(sourceID string, payload json.RawMessage) string {
	parts := make([]string, 0, 8)
	if sourceID != "" {
		parts = append(parts, "Source ID: "+sourceID)
	}
	pairs, ok := decodeOrderedObject(payload)
	if !ok {
		return strings.Join(append(parts, compactJSON(payload)), " ")
	}
	for _, pair := range pairs {
		var text string
		if err := json.Unmarshal(pair.value, &text); err == nil {
			parts = append(parts, pair.key+": "+text)
			continue
		}
		parts = append(parts, pair.key+": "+compactJSON(pair.value))
	}
	return strings.Join(parts, " ")
}

type orderedPair struct {
	key   string
	value json.RawMessage
}

// decodeOrderedObject walks the top-level object via the token stream so
// field order survives; map decoding would scramble it.
func decodeOrderedObject(payload json.RawMessage) ([]orderedPair, bool) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	tok, err := dec.Token()
	if err != nil {
		return nil, false
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, false
	}
	var pairs []orderedPair
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, false
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, false
		}
		pairs = append(pairs, orderedPair{key: key, value: value})
	}
	return pairs, true
}

func compactJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// Substitute fills the two named template slots. Templates come from the
// settings store and use {prompt} and {content_list} markers.
func Substitute(template, prompt, contentList string) string {
	replacer := strings.NewReplacer("{prompt}", prompt, "{content_list}", contentList)
	return replacer.Replace(template)
}
