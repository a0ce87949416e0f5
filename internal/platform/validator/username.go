package validator

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// MaxUsernameLength bounds handles as shown in "@username".
const MaxUsernameLength = 64

// Username validation errors
var (
	ErrUsernameEmpty         = errors.New("username cannot be empty")
	ErrUsernameTooLong       = errors.New("username is too long")
	ErrInvalidUsernameFormat = errors.New("username must contain only lowercase letters, numbers, underscores, and hyphens")
)

var (
	usernameValidationRegex = regexp.MustCompile(`^[a-z0-9_-]+$`)
	usernameReplaceRegex    = regexp.MustCompile(`[^a-z0-9_-]+`)
	usernameCollapseRegex   = regexp.MustCompile(`-+`)
)

// ValidateUsername checks that a handle is non-empty, bounded and URL-safe.
func ValidateUsername(username string) error {
	if username == "" {
		return ErrUsernameEmpty
	}
	if len(username) > MaxUsernameLength {
		return ErrUsernameTooLong
	}
	if !usernameValidationRegex.MatchString(username) {
		return ErrInvalidUsernameFormat
	}
	return nil
}

// NormalizeUsername turns an arbitrary identity-provider handle into a valid
// username. It returns "" when nothing usable is left.
func NormalizeUsername(raw string) string {
	username := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(raw), "@"))
	username = usernameReplaceRegex.ReplaceAllString(username, "-")
	username = usernameCollapseRegex.ReplaceAllString(username, "-")
	username = strings.Trim(username, "-")

	if len(username) > MaxUsernameLength {
		username = strings.TrimRight(username[:MaxUsernameLength], "-")
	}
	return username
}

// WithSuffix appends "-n" to base, truncating base so the result stays
// within MaxUsernameLength. A non-positive suffix returns base unchanged.
func WithSuffix(base string, suffix int) string {
	if suffix <= 0 {
		return base
	}

	suffixStr := "-" + strconv.Itoa(suffix)
	if len(base)+len(suffixStr) > MaxUsernameLength {
		base = strings.TrimRight(base[:MaxUsernameLength-len(suffixStr)], "-")
	}
	return base + suffixStr
}
