package report

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
)

const doctype = "<!DOCTYPE"

// ExtractHTML strips code fences around a generated document and drops any
// preamble before the doctype.
func ExtractHTML(text string) string {
	switch {
	case strings.Contains(text, "```html"):
		text = fenced(text, "```html")
	case strings.Contains(text, "```"):
		text = fenced(text, "```")
	}
	text = strings.TrimSpace(text)

	if !strings.HasPrefix(text, doctype) {
		if idx := strings.Index(text, doctype); idx > -1 {
			text = text[idx:]
		}
	}
	return text
}

// fenced returns the text between the first opening fence and the next ```.
func fenced(text, open string) string {
	_, after, _ := strings.Cut(text, open)
	body, _, _ := strings.Cut(after, "```")
	return body
}

// cleanJSON attempts to extract a JSON object from text that may contain
// markdown code fences or other wrapping.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}

// ParseFindings extracts the outermost JSON object from text.
func ParseFindings(text string) (json.RawMessage, error) {
	cleaned := cleanJSON(text)
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &obj); err != nil {
		return nil, eris.Wrap(err, "report: parse findings")
	}
	if obj == nil {
		return nil, eris.New("report: findings are not an object")
	}
	return json.RawMessage(cleaned), nil
}

// Excerpt truncates text to at most n runes.
func Excerpt(text string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
