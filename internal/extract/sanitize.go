package extract

import (
	"regexp"
	"strings"
)

// Message text leaves the machine inside prompts, so contact details are
// redacted before anything else sees them.
var (
	emailRe = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)
	phoneRe = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	urlRe   = regexp.MustCompile(`https?://\S+`)
)

// Sanitize redacts emails, phone numbers, and URLs from message content.
func Sanitize(content string) string {
	s := emailRe.ReplaceAllString(content, "[EMAIL]")
	s = phoneRe.ReplaceAllString(s, "[PHONE]")
	s = urlRe.ReplaceAllString(s, "[LINK]")
	return strings.TrimSpace(s)
}
