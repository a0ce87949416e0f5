package validator

import (
	"errors"
	"strings"

	"github.com/forPelevin/gomoji"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rivo/uniseg"
)

// MaxContentLength is the post limit in user-perceived characters.
const MaxContentLength = 280

// Content validation errors. The messages are shown to users verbatim.
var (
	ErrContentEmpty    = errors.New("Post cannot be empty")
	ErrContentTooLong  = errors.New("Post must not exceed 280 characters")
	ErrContentNotEmoji = errors.New("Only emojis are allowed")
)

var stripPolicy = bluemonday.StrictPolicy()

// SanitizeContent removes any markup and surrounding whitespace.
func SanitizeContent(raw string) string {
	return strings.TrimSpace(stripPolicy.Sanitize(raw))
}

// ValidateContent checks already-sanitized post content. Length is counted in
// grapheme clusters so a family emoji counts once.
func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrContentEmpty
	}
	if uniseg.GraphemeClusterCount(content) > MaxContentLength {
		return ErrContentTooLong
	}
	if !onlyEmoji(content) {
		return ErrContentNotEmoji
	}
	return nil
}

// onlyEmoji reports whether nothing but whitespace (including CRLF pairs)
// is left once every emoji sequence is removed.
func onlyEmoji(content string) bool {
	return strings.TrimSpace(gomoji.RemoveEmojis(content)) == ""
}
