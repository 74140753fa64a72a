package directory

import (
	"context"
	"errors"
	"testing"

	"campuscloset/model"
	profilerepo "campuscloset/repository/profile"
	"campuscloset/util/apperr"

	"github.com/stretchr/testify/require"
)

type finderFunc func(ctx context.Context, email string) (*model.Profile, error)

func (f finderFunc) ByEmail(ctx context.Context, email string) (*model.Profile, error) {
	return f(ctx, email)
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	f := finderFunc(func(ctx context.Context, email string) (*model.Profile, error) {
		switch email {
		case "ada@spelman.edu":
			return &model.Profile{ID: "u-1", Email: email}, nil
		case "down@spelman.edu":
			return nil, errors.New("conn refused")
		}
		return nil, profilerepo.ErrNotFound
	})

	p, err := Resolve(ctx, f, " ada@spelman.edu ")
	require.NoError(t, err)
	require.Equal(t, "u-1", p.ID)

	_, err = Resolve(ctx, f, "")
	require.Equal(t, apperr.ErrAuth, apperr.Code(err))

	_, err = Resolve(ctx, f, "ghost@spelman.edu")
	require.Equal(t, apperr.ErrNotFound, apperr.Code(err))

	_, err = Resolve(ctx, f, "down@spelman.edu")
	require.Equal(t, apperr.ErrStorage, apperr.Code(err))
}
