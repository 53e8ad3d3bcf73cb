package llm

import (
	"encoding/json"
	"strings"
)

// CleanJSONBlock returns the JSON payload of an LLM response. Models wrap JSON
// in markdown fences or add a sentence before or after it even when asked not
// to, so the first balanced object or array that is valid JSON is extracted.
// Text with no such block is returned with any fences removed.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	for offset := 0; offset < len(text); {
		start := strings.IndexAny(text[offset:], "{[")
		if start < 0 {
			break
		}
		candidate := text[offset+start:]
		var extracted string
		if candidate[0] == '{' {
			extracted = extractJSONObject(candidate)
		} else {
			extracted = extractJSONArray(candidate)
		}
		if extracted != "" && json.Valid([]byte(extracted)) {
			return extracted
		}
		offset += start + 1
	}

	return stripFences(text)
}

// extractJSONObject returns the balanced object at the start of text, or "".
func extractJSONObject(text string) string {
	return extractBalanced(text, '{', '}')
}

// extractJSONArray returns the balanced array at the start of text, or "".
func extractJSONArray(text string) string {
	return extractBalanced(text, '[', ']')
}

func extractBalanced(text string, open, closing byte) string {
	if text == "" || text[0] != open {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return text[:i+1]
			}
		}
	}
	return ""
}

func stripFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	// Skip a language identifier on the first line
	if idx := strings.Index(text, "\n"); idx >= 0 {
		firstLine := text[:idx]
		if len(firstLine) < 20 && !strings.Contains(firstLine, " ") {
			text = text[idx+1:]
		}
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
