package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed reports model output that holds no decodable JSON.
var ErrParseFailed = errors.New("failed to parse response")

var fencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")

// maxQuoted bounds how much of the rejected content an error carries.
const maxQuoted = 200

// Parse decodes a JSON value of type T from model output. The content is
// tried as-is, then the first fenced code block, then the span from the
// first '{' to the last '}' when the model wrapped the object in prose.
// That last form is skipped when the object sits inside an array.
func Parse[T any](content string) (T, error) {
	var result T
	content = strings.TrimSpace(strings.TrimPrefix(content, "\uFEFF"))

	for _, candidate := range candidates(content) {
		if err := json.Unmarshal([]byte(candidate), &result); err == nil {
			return result, nil
		}
		result = *new(T)
	}

	return result, fmt.Errorf("%w: %s", ErrParseFailed, quote(content))
}

func candidates(content string) []string {
	out := []string{content}
	if m := fencePattern.FindStringSubmatch(content); m != nil {
		out = append(out, strings.TrimSpace(m[1]))
	}
	start, end := strings.IndexByte(content, '{'), strings.LastIndexByte(content, '}')
	if start > 0 && end > start && !strings.ContainsAny(content[:start], "[{") {
		out = append(out, content[start:end+1])
	}
	return out
}

func quote(content string) string {
	if len(content) <= maxQuoted {
		return content
	}
	return content[:maxQuoted] + "..."
}
