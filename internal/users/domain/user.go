package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/philly/chirp/internal/platform/validator"
)

var (
	ErrEmptyExternalID = errors.New("external ID cannot be empty")
)

// User is a local mirror of an identity-provider account. ExternalID is the
// provider's subject; ID is what posts reference.
type User struct {
	ID              uuid.UUID
	ExternalID      string
	Username        string
	ProfileImageURL string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewUser builds a user from identity claims. username must already be normalized.
func NewUser(externalID, username, profileImageURL string, now time.Time) (*User, error) {
	if externalID == "" {
		return nil, ErrEmptyExternalID
	}
	if err := validator.ValidateUsername(username); err != nil {
		return nil, err
	}

	now = now.UTC()
	return &User{
		ID:              uuid.New(),
		ExternalID:      externalID,
		Username:        username,
		ProfileImageURL: profileImageURL,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// UpdateProfile applies changed claims and reports whether anything changed.
// Empty values leave the current field untouched.
func (u *User) UpdateProfile(username, profileImageURL string, now time.Time) (bool, error) {
	changed := false
	if username != "" && username != u.Username {
		if err := validator.ValidateUsername(username); err != nil {
			return false, err
		}
		u.Username = username
		changed = true
	}
	if profileImageURL != "" && profileImageURL != u.ProfileImageURL {
		u.ProfileImageURL = profileImageURL
		changed = true
	}
	if changed {
		u.UpdatedAt = now.UTC()
	}
	return changed, nil
}
