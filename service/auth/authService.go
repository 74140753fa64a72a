package authsvc

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"campuscloset/model"
	identityrepo "campuscloset/repository/identity"
	"campuscloset/util/apperr"
	"campuscloset/util/httpx"
	jwtutil "campuscloset/util/jwt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	MsgRegistered   = "Registration successful. Check your email for verification."
	MsgLoggedIn     = "Login successful"
	MsgVerified     = "Email verified successfully"
	MsgInvalidCreds = "Invalid email or password"
	MsgInvalidCode  = "Invalid verification code."
	MsgEmailTaken   = "Email already registered"
	defaultName     = "User"
)

type ProfileRepo interface {
	Upsert(ctx context.Context, p *model.Profile) error
	MarkVerified(ctx context.Context, email string) error
}

type LoginResult struct {
	Name     string
	Token    string
	// Verified reports whether the identity provider has confirmed the email.
	Verified bool
}

type Service interface {
	Register(ctx context.Context, req model.RegisterReq) (string, error)
	Login(ctx context.Context, req model.LoginReq) (*LoginResult, error)
	Verify(ctx context.Context, req model.VerifyReq) error
}

type Options struct {
	AllowedDomains []string
	JWTSecret      string
	TTLHours       int
	Log            *slog.Logger
}

type service struct {
	idp      identityrepo.Repo
	profiles ProfileRepo
	opts     Options
	log      *slog.Logger
}

func New(idp identityrepo.Repo, profiles ProfileRepo, opts Options) Service {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	if opts.TTLHours <= 0 {
		opts.TTLHours = 24
	}
	return &service{idp: idp, profiles: profiles, opts: opts, log: log}
}

// DomainMessage is the error shown for a non-campus email.
func (s *service) DomainMessage() string {
	parts := make([]string, len(s.opts.AllowedDomains))
	for i, d := range s.opts.AllowedDomains {
		parts[i] = "@" + d
	}
	return "Email must end with " + strings.Join(parts, " or ") + "."
}

func (s *service) allowedEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, d := range s.opts.AllowedDomains {
		if strings.HasSuffix(email, "@"+strings.ToLower(d)) {
			return true
		}
	}
	return false
}

func (s *service) Register(ctx context.Context, req model.RegisterReq) (string, error) {
	if !s.allowedEmail(req.Email) {
		return "", apperr.New(apperr.ErrValidation, s.DomainMessage())
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	name := strings.TrimSpace(req.Name)
	if name == "" || len(req.Password) < 6 {
		return "", apperr.New(apperr.ErrValidation, "Name and a password of at least 6 characters are required")
	}

	u, err := s.idp.SignUp(ctx, email, req.Password, name)
	if err != nil {
		if alreadyRegistered(err) {
			return "", apperr.Wrap(apperr.ErrConflict, MsgEmailTaken, err)
		}
		var se *httpx.StatusError
		if errors.As(err, &se) && se.Status < http.StatusInternalServerError {
			return "", apperr.Wrap(apperr.ErrValidation, "Registration was rejected, check your email and password", err)
		}
		return "", apperr.Wrap(apperr.ErrUpstream, "Error registering user", err)
	}

	// The provider already holds the account; a missing mirror row is
	// recreated on first login.
	if err := s.profiles.Upsert(ctx, &model.Profile{ID: u.ID, Email: email, Name: name}); err != nil {
		s.log.Warn("profile upsert after signup failed", "err", err, "user_id", u.ID)
	}
	return MsgRegistered, nil
}

func (s *service) Login(ctx context.Context, req model.LoginReq) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, apperr.New(apperr.ErrValidation, "Email and password are required")
	}

	u, err := s.idp.SignIn(ctx, email, req.Password)
	if err != nil {
		var se *httpx.StatusError
		if errors.As(err, &se) && se.Status < http.StatusInternalServerError {
			return nil, apperr.Wrap(apperr.ErrAuth, MsgInvalidCreds, err)
		}
		return nil, apperr.Wrap(apperr.ErrUpstream, "Error logging in", err)
	}

	name := u.Name
	if name == "" {
		name = defaultName
	}
	p := &model.Profile{ID: u.ID, Email: email, Name: u.Name}
	if err := s.profiles.Upsert(ctx, p); err != nil {
		if emailOwnedByOtherID(err) {
			return nil, apperr.Wrap(apperr.ErrConflict, "Email is linked to another account", err)
		}
		return nil, apperr.Wrap(apperr.ErrStorage, "Error logging in", err)
	}

	// Confirmations made through the provider's email link never hit /verify.
	if u.EmailConfirm {
		if err := s.profiles.MarkVerified(ctx, email); err != nil {
			s.log.Warn("mark verified on login failed", "err", err, "user_id", u.ID)
		}
	}

	token, err := jwtutil.Issue(s.opts.JWTSecret, u.ID, email, name, s.opts.TTLHours)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrUpstream, "Error logging in", err)
	}
	return &LoginResult{Name: name, Token: token, Verified: u.EmailConfirm}, nil
}

func (s *service) Verify(ctx context.Context, req model.VerifyReq) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	code := strings.TrimSpace(req.VerificationCode)
	if email == "" || code == "" {
		return apperr.New(apperr.ErrValidation, "Email and verification code are required")
	}

	u, err := s.idp.VerifySignupOTP(ctx, email, code)
	if err != nil {
		var se *httpx.StatusError
		if errors.As(err, &se) && se.Status < http.StatusInternalServerError {
			return apperr.Wrap(apperr.ErrVerification, MsgInvalidCode, err)
		}
		return apperr.Wrap(apperr.ErrUpstream, "Error verifying email", err)
	}

	if err := s.profiles.Upsert(ctx, &model.Profile{ID: u.ID, Email: email, Name: u.Name}); err != nil {
		s.log.Warn("profile upsert after verify failed", "err", err, "user_id", u.ID)
		return nil
	}
	if err := s.profiles.MarkVerified(ctx, email); err != nil {
		s.log.Warn("mark verified failed", "err", err, "user_id", u.ID)
	}
	return nil
}

func alreadyRegistered(err error) bool {
	var se *httpx.StatusError
	if !errors.As(err, &se) || se.Status >= http.StatusInternalServerError {
		return false
	}
	body := strings.ToLower(se.Body)
	return strings.Contains(body, "already registered") || strings.Contains(body, "user_already_exists")
}

func emailOwnedByOtherID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
