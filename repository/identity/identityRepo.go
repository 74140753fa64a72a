package identityrepo

import "context"

// User is the subset of an identity-provider user the service relies on.
type User struct {
	ID           string
	Email        string
	Name         string
	EmailConfirm bool
}

type Repo interface {
	SignUp(ctx context.Context, email, password, name string) (*User, error)
	SignIn(ctx context.Context, email, password string) (*User, error)
	VerifySignupOTP(ctx context.Context, email, code string) (*User, error)
}
