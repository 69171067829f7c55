// Package jsonpath extracts values from JSON documents with a small subset
// of JSONPath ($.a.b, $.list[0].name, $['key']) evaluated by gjson.
package jsonpath

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

// Extract returns the value at path as a string. Objects and arrays are
// returned as raw JSON, null as "null".
func Extract(doc string, path string) (string, error) {
	if strings.TrimSpace(doc) == "" {
		return "", fmt.Errorf("empty JSON document")
	}
	if path == "" {
		return "", fmt.Errorf("empty JSONPath expression")
	}
	if !gjson.Valid(doc) {
		return "", fmt.Errorf("invalid JSON document")
	}

	result := gjson.Get(doc, ToGJSON(path))
	if !result.Exists() {
		return "", fmt.Errorf("path not found: %s", path)
	}
	if result.Type == gjson.Null {
		return "null", nil
	}
	if result.IsObject() || result.IsArray() {
		return result.Raw, nil
	}
	return result.String(), nil
}

// ExtractAll evaluates every named path. Values that resolve are returned
// even when others fail; the error lists the failures in name order.
func ExtractAll(doc string, paths map[string]string) (map[string]string, error) {
	names := make([]string, 0, len(paths))
	for name := range paths {
		names = append(names, name)
	}
	sort.Strings(names)

	values := make(map[string]string, len(paths))
	var failures []string
	for _, name := range names {
		v, err := Extract(doc, paths[name])
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		values[name] = v
	}

	if len(failures) > 0 {
		return values, fmt.Errorf("extraction errors: %s", strings.Join(failures, "; "))
	}
	return values, nil
}

// ToGJSON converts a JSONPath expression to gjson path syntax:
// $.users[0]['name'] becomes users.0.name.
func ToGJSON(path string) string {
	path = strings.TrimPrefix(strings.TrimSpace(path), "$")
	if path == "" {
		return "@this"
	}

	var parts []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			parts = append(parts, current.String())
			current.Reset()
		}
	}

	for i := 0; i < len(path); i++ {
		switch c := path[i]; c {
		case '.':
			flush()
		case '[':
			flush()
			end := strings.IndexByte(path[i:], ']')
			if end < 0 {
				current.WriteString(path[i+1:])
				i = len(path)
				continue
			}
			parts = append(parts, strings.Trim(path[i+1:i+end], `'"`))
			i += end
		default:
			current.WriteByte(c)
		}
	}
	flush()

	if len(parts) == 0 {
		return "@this"
	}
	return strings.Join(parts, ".")
}
