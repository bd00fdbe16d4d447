package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	openFenceRe  = regexp.MustCompile("(?i)^```(?:json)?\\s*\\n?")
	closeFenceRe = regexp.MustCompile("\\n?```\\s*$")
)

// StripFences removes a surrounding markdown code fence.
func StripFences(text string) string {
	text = strings.TrimSpace(text)
	text = openFenceRe.ReplaceAllString(text, "")
	text = closeFenceRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// DecodeArray extracts a JSON array of T from model output. It accepts a
// bare array, a {"result": ...} envelope whose result is a string or JSON
// value (optionally fenced), or fenced raw output.
func DecodeArray[T any](out string) ([]T, error) {
	var direct any
	if err := json.Unmarshal([]byte(out), &direct); err == nil {
		switch v := direct.(type) {
		case []any:
			return decodeInto[T](out)
		case map[string]any:
			result, ok := v["result"]
			if !ok {
				return nil, fmt.Errorf("response object has no result field")
			}
			inner, isString := result.(string)
			if !isString {
				raw, err := json.Marshal(result)
				if err != nil {
					return nil, err
				}
				inner = string(raw)
			}
			return decodeInto[T](StripFences(inner))
		default:
			return nil, fmt.Errorf("unexpected response type %T", direct)
		}
	}
	return decodeInto[T](StripFences(out))
}

func decodeInto[T any](text string) ([]T, error) {
	var items []T
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil, fmt.Errorf("decode response array: %w", err)
	}
	return items, nil
}
