// Package normalize turns raw backend output into the shape a caller asked
// for. Generation backends wrap structured answers in Markdown code fences,
// prose preambles, or both; the helpers here strip that decoration and
// validate the payload so downstream code never parses model output itself.
package normalize

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"genroute/internal/domain/entity"
)

// Shape names the payload forms a caller can request.
type Shape int

const (
	// ShapeText passes the trimmed raw output through.
	ShapeText Shape = iota

	// ShapeList expects a JSON array of strings.
	ShapeList

	// ShapeObject expects a single JSON object.
	ShapeObject
)

// String returns the wire name of the shape.
func (s Shape) String() string {
	switch s {
	case ShapeList:
		return "list"
	case ShapeObject:
		return "object"
	default:
		return "text"
	}
}

// ParseShape maps a wire name onto a Shape. Unknown and empty names fall back
// to ShapeText, which never fails.
func ParseShape(name string) Shape {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "list":
		return ShapeList
	case "object":
		return ShapeObject
	default:
		return ShapeText
	}
}

// Strip removes Markdown code fences and surrounding whitespace from raw
// backend output. It handles the common fence styles: a bare ``` fence, a
// language-tagged fence like ```json, and fences with leading prose before
// them. Input without fences is returned trimmed. Strip is idempotent.
func Strip(raw string) string {
	s := strings.TrimSpace(raw)

	start := strings.Index(s, "```")
	if start < 0 {
		return s
	}

	// Skip the opening fence and its optional language tag.
	body := s[start+3:]
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		firstLine := strings.TrimSpace(body[:nl])
		if isLanguageTag(firstLine) {
			body = body[nl+1:]
		}
	} else {
		// Single-line fence like ```json{...}```.
		body = stripTagPrefix(body)
	}

	if end := strings.LastIndex(body, "```"); end >= 0 {
		body = body[:end]
	}

	return strings.TrimSpace(body)
}

// isLanguageTag reports whether a fence's first line is a language marker
// rather than payload.
func isLanguageTag(line string) bool {
	if line == "" {
		return true
	}
	if len(line) > 20 {
		return false
	}
	for i := 0; i < len(line); i++ {
		if !isTagByte(line[i]) {
			return false
		}
	}
	return true
}

func isTagByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '-' || b == '_'
}

// stripTagPrefix drops a leading language tag from a single-line fence body.
// The tag is dropped only when a JSON payload follows it, so fenced prose
// that happens to start with a tag-like word stays intact.
func stripTagPrefix(body string) string {
	i := 0
	for i < len(body) && isTagByte(body[i]) {
		i++
	}
	if i == 0 || i == len(body) || !isLanguageTag(body[:i]) {
		return body
	}
	rest := strings.TrimSpace(body[i:])
	if strings.HasPrefix(rest, "{") || strings.HasPrefix(rest, "[") || strings.HasPrefix(rest, `"`) {
		return body[i:]
	}
	return body
}

// StringList parses raw backend output as a JSON array of strings, stripping
// code fences first. Non-string elements are stringified; a JSON value that
// is not an array is an error.
func StringList(raw string) ([]string, error) {
	cleaned := Strip(raw)

	if !gjson.Valid(cleaned) {
		return nil, fmt.Errorf("not valid JSON: %q", truncate(cleaned))
	}

	parsed := gjson.Parse(cleaned)
	if !parsed.IsArray() {
		return nil, fmt.Errorf("expected JSON array, got %s", parsed.Type)
	}

	items := parsed.Array()
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.String())
	}
	return out, nil
}

// Object parses raw backend output as a single JSON object, stripping code
// fences first.
func Object(raw string) (map[string]any, error) {
	cleaned := Strip(raw)

	if !gjson.Valid(cleaned) {
		return nil, fmt.Errorf("not valid JSON: %q", truncate(cleaned))
	}

	parsed := gjson.Parse(cleaned)
	if !parsed.IsObject() {
		return nil, fmt.Errorf("expected JSON object, got %s", parsed.Type)
	}

	obj, ok := parsed.Value().(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected JSON object, got %s", parsed.Type)
	}
	return obj, nil
}

// Normalize validates raw backend output against the requested shape and
// returns the canonical text form: trimmed prose for ShapeText, the stripped
// JSON payload for ShapeList and ShapeObject. A payload that fails shape
// validation is a malformed-response error attributed to the given backend,
// which makes the router move on to the next candidate.
func Normalize(raw string, shape Shape, backend string) (string, error) {
	switch shape {
	case ShapeList:
		if _, err := StringList(raw); err != nil {
			return "", entity.Classified(entity.KindMalformedResponse, backend, err)
		}
		return Strip(raw), nil

	case ShapeObject:
		if _, err := Object(raw); err != nil {
			return "", entity.Classified(entity.KindMalformedResponse, backend, err)
		}
		return Strip(raw), nil

	default:
		text := strings.TrimSpace(raw)
		if text == "" {
			return "", entity.Classified(entity.KindMalformedResponse, backend,
				fmt.Errorf("backend returned empty output"))
		}
		return text, nil
	}
}

// truncate keeps error messages readable when a backend returns a wall of
// prose instead of JSON.
func truncate(s string) string {
	const max = 80
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
