// Package identity resolves the signed-in user whose name, team and avatar
// are stamped on new records and comments.
package identity

import (
	"context"
	"errors"

	"github.com/alexanderramin/kpidesk/internal/domain"
)

// ErrUnknownUser is returned when no profile is configured for the user.
var ErrUnknownUser = errors.New("identity: unknown user")

// Provider returns the profile of the current user.
type Provider interface {
	Current(ctx context.Context) (domain.Profile, error)
}

// StaticProvider serves a fixed profile, typically read from configuration.
type StaticProvider struct {
	profile domain.Profile
}

func NewStaticProvider(p domain.Profile) *StaticProvider {
	return &StaticProvider{profile: p}
}

func (s *StaticProvider) Current(context.Context) (domain.Profile, error) {
	if s.profile.UserID == "" && s.profile.Name == "" {
		return domain.Profile{}, ErrUnknownUser
	}
	return s.profile, nil
}
