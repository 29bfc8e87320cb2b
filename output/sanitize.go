package output

import (
	"regexp"
	"strings"

	"github.com/iancoleman/strcase"
)

var underscoreRuns = regexp.MustCompile(`_+`)

// sanitizeIdentifier turns an offset or module name into a valid
// identifier for the generated languages. With constant set, the
// result is SCREAMING_SNAKE_CASE for Rust constants.
func sanitizeIdentifier(name string, constant bool) string {
	sanitized := strings.Map(func(r rune) rune {
		if r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
			return r
		}
		return '_'
	}, name)

	if constant {
		sanitized = strcase.ToScreamingSnake(sanitized)
	}

	if sanitized != "" && sanitized[0] >= '0' && sanitized[0] <= '9' {
		sanitized = "_" + sanitized
	}

	sanitized = underscoreRuns.ReplaceAllString(sanitized, "_")

	// Drop an underscore introduced by a trailing special character,
	// but keep one the author wrote themselves.
	if strings.HasSuffix(sanitized, "_") && len(sanitized) > 1 && !strings.HasSuffix(name, "_") {
		sanitized = sanitized[:len(sanitized)-1]
	}

	if sanitized == "" {
		return "_empty_"
	}
	return sanitized
}
