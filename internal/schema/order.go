package schema

import (
	"bytes"
	"encoding/json"
)

// fieldOrder returns the keys of the top-level "fields" object in the order
// they appear in data. It returns nil if data has no such object.
func fieldOrder(data []byte) []string {
	dec := json.NewDecoder(bytes.NewReader(data))
	if !expectDelim(dec, '{') {
		return nil
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil
		}
		key, _ := tok.(string)
		if key != "fields" {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil
			}
			continue
		}
		if !expectDelim(dec, '{') {
			return nil
		}
		var names []string
		seen := make(map[string]bool)
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return nil
			}
			name, _ := tok.(string)
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil
			}
		}
		return names
	}
	return nil
}

func expectDelim(dec *json.Decoder, want json.Delim) bool {
	tok, err := dec.Token()
	if err != nil {
		return false
	}
	d, ok := tok.(json.Delim)
	return ok && d == want
}
