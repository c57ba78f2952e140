// Package parse recovers suggestion lists from model output. The model is
// asked for a bare JSON array but routinely wraps it in prose, code fences,
// or numbered lists; the parser takes the first JSON array it can find and
// falls back to line scavenging before giving up.
package parse

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Sentinel returned when both strategies come up empty. Callers treat any
// batch containing it as a parse failure.
const Unavailable = "Unable to generate suggestions. Please try again."

const maxSuggestions = 3

// Bounds constrain the plausible length of one scavenged suggestion line.
type Bounds struct {
	Min int // exclusive
	Max int // exclusive
}

// MessageBounds fits replies and outreach: real messages run a sentence to a
// short paragraph.
var MessageBounds = Bounds{Min: 10, Max: 500}

// CommentBounds fits one-liner comments.
var CommentBounds = Bounds{Min: 5, Max: 300}

var (
	jsonArrayRe = regexp.MustCompile(`\[[\s\S]*?\]`)
	ordinalRe   = regexp.MustCompile(`^\d+[.)]\s*`)
	quoteRe     = regexp.MustCompile(`^["']|["']$`)
	dashRe      = regexp.MustCompile(`^-\s*`)
)

// Suggestions extracts up to three suggestion strings from a raw model
// response. The result always has at least one element; when nothing could
// be recovered it is the Unavailable sentinel.
func Suggestions(response string, bounds Bounds) []string {
	if m := jsonArrayRe.FindString(response); m != "" {
		var items []any
		if err := json.Unmarshal([]byte(m), &items); err == nil && len(items) > 0 {
			var valid []string
			for _, item := range items {
				if s, ok := item.(string); ok {
					if t := strings.TrimSpace(s); t != "" {
						valid = append(valid, t)
					}
				}
			}
			if len(valid) > 0 {
				return cap3(valid)
			}
		}
	}

	var lines []string
	for _, line := range strings.Split(response, "\n") {
		line = ordinalRe.ReplaceAllString(line, "")
		line = quoteRe.ReplaceAllString(line, "")
		line = dashRe.ReplaceAllString(line, "")
		line = strings.TrimSpace(line)
		if len(line) > bounds.Min && len(line) < bounds.Max {
			lines = append(lines, line)
		}
	}
	if len(lines) > 0 {
		return cap3(lines)
	}

	return []string{Unavailable}
}

// Failed reports whether a parsed batch is the give-up sentinel.
func Failed(suggestions []string) bool {
	return len(suggestions) == 0 ||
		(len(suggestions) == 1 && strings.Contains(suggestions[0], "Unable to generate"))
}

func cap3(items []string) []string {
	if len(items) > maxSuggestions {
		return items[:maxSuggestions]
	}
	return items
}
