package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Model output is not guaranteed well-formed JSON: it may be fenced, wrapped
// in prose, or cut off mid-array by a token limit. The salvage functions
// below recover as much valid data as possible without ever false-accepting
// garbage; every step still has to parse as real JSON.

// ExtractArray pulls a JSON array out of arbitrarily formatted model text.
// Returns the raw array bytes, or nil when nothing parseable is found.
// Never errors; the caller treats nil as a retryable attempt failure.
func ExtractArray(text string) []byte {
	t := strings.TrimSpace(text)
	if t == "" {
		return nil
	}

	// 1) bare array
	if strings.HasPrefix(t, "[") {
		if raw := tryArray(t); raw != nil {
			return raw
		}
	}

	// 2) fenced array
	if stripped := stripFences(t); stripped != t && strings.HasPrefix(stripped, "[") {
		if raw := tryArray(stripped); raw != nil {
			return raw
		}
	}

	// 3) array embedded in prose: first '[' through last ']'
	i := strings.Index(t, "[")
	if i < 0 {
		return nil
	}
	if j := strings.LastIndex(t, "]"); j > i {
		if raw := tryArray(t[i : j+1]); raw != nil {
			return raw
		}
	}

	// 4) truncated array: close it and keep whatever parsed
	tail := strings.TrimRight(strings.TrimSpace(t[i:]), ",")
	if raw := tryArray(tail + "]"); raw != nil {
		return raw
	}
	return nil
}

// ExtractObject finds the first top-level JSON object in the text via a
// non-greedy brace match. Nil when absent or unparseable.
func ExtractObject(text string) []byte {
	m := reObject.FindString(stripFences(strings.TrimSpace(text)))
	if m == "" {
		return nil
	}
	var probe map[string]any
	if err := json.Unmarshal([]byte(m), &probe); err != nil {
		return nil
	}
	return []byte(m)
}

var reObject = regexp.MustCompile(`(?s)\{.*?\}`)

func tryArray(s string) []byte {
	var probe []any
	if err := json.Unmarshal([]byte(s), &probe); err != nil {
		return nil
	}
	return []byte(s)
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	for _, tag := range []string{"```json", "```JSON", "```"} {
		if strings.HasPrefix(s, tag) {
			s = s[len(tag):]
			break
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
