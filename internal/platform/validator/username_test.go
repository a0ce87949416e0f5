package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  error
	}{
		{name: "valid", username: "emoji_fan-42"},
		{name: "empty", username: "", wantErr: ErrUsernameEmpty},
		{name: "too long", username: strings.Repeat("a", MaxUsernameLength+1), wantErr: ErrUsernameTooLong},
		{name: "uppercase", username: "Philly", wantErr: ErrInvalidUsernameFormat},
		{name: "space", username: "a b", wantErr: ErrInvalidUsernameFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNormalizeUsername(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "Philly", want: "philly"},
		{raw: "@someone", want: "someone"},
		{raw: "Jane  Doe!!", want: "jane-doe"},
		{raw: "--edge--", want: "edge"},
		{raw: "🎉", want: ""},
		{raw: strings.Repeat("ab", MaxUsernameLength), want: strings.Repeat("ab", MaxUsernameLength/2)},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := NormalizeUsername(tt.raw)
			assert.Equal(t, tt.want, got)
			if got != "" {
				assert.NoError(t, ValidateUsername(got))
			}
		})
	}
}

func TestWithSuffix(t *testing.T) {
	assert.Equal(t, "philly", WithSuffix("philly", 0))
	assert.Equal(t, "philly-2", WithSuffix("philly", 2))

	long := strings.Repeat("a", MaxUsernameLength)
	got := WithSuffix(long, 12)
	assert.Len(t, got, MaxUsernameLength)
	assert.True(t, strings.HasSuffix(got, "-12"))
}
