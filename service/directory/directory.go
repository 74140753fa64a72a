// Package directory resolves a session email to the locally mirrored
// provider user.
package directory

import (
	"context"
	"errors"
	"strings"

	"campuscloset/model"
	profilerepo "campuscloset/repository/profile"
	"campuscloset/util/apperr"
)

type Finder interface {
	ByEmail(ctx context.Context, email string) (*model.Profile, error)
}

func Resolve(ctx context.Context, f Finder, email string) (*model.Profile, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, apperr.New(apperr.ErrAuth, "User authentication required")
	}
	p, err := f.ByEmail(ctx, email)
	if errors.Is(err, profilerepo.ErrNotFound) {
		return nil, apperr.New(apperr.ErrNotFound, "User not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStorage, "Error looking up user", err)
	}
	return p, nil
}
