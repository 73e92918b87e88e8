package ollama

import (
	"regexp"
	"strings"
)

var (
	DefaultFillerPrefixes = []string{"Here's ", "Here is ", "I see ", "In this image "}

	newlineRun    = regexp.MustCompile(`\n+`)
	whitespaceRun = regexp.MustCompile(`[\s\v\x{85}\p{Z}]+`)
)

// CleanCaption trims model filler from raw generated text. The pass is
// repeated until the text no longer changes, so CleanCaption is idempotent.
func CleanCaption(raw string, fillerPrefixes []string) string {
	caption := raw
	for {
		next := cleanOnce(caption, fillerPrefixes)
		if next == caption {
			return next
		}
		caption = next
	}
}

func cleanOnce(s string, fillerPrefixes []string) string {
	s = strings.TrimSpace(s)
	s = trimQuote(s)
	s = newlineRun.ReplaceAllString(s, " ")
	s = whitespaceRun.ReplaceAllString(s, " ")
	for _, prefix := range fillerPrefixes {
		if prefix != "" && strings.HasPrefix(s, prefix) {
			s = strings.TrimPrefix(s, prefix)
			break
		}
	}
	return strings.TrimSpace(s)
}

func trimQuote(s string) string {
	if strings.HasPrefix(s, `"`) || strings.HasPrefix(s, "'") {
		s = s[1:]
	}
	if strings.HasSuffix(s, `"`) || strings.HasSuffix(s, "'") {
		s = s[:len(s)-1]
	}
	return s
}
