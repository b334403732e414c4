package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/gatherly-app/gatherly-web/internal/corehub"
	"github.com/gatherly-app/gatherly-web/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/multierr"
)

var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrMissingToken       = errors.New("token not received")
)

// Clearer is per-visitor state that becomes meaningless without a live
// session and must be dropped on sign-out (selected event, profile)
type Clearer interface {
	Clear(ctx context.Context, visitorID string) error
}

// Service drives the session lifecycle: password sign-in against the core
// API, SSO commit, and the sign-out fan-out
type Service struct {
	store    *Store
	api      *corehub.Client // public client, login endpoints need no credential
	clearers []Clearer
}

func NewService(store *Store, api *corehub.Client, clearers ...Clearer) *Service {
	return &Service{
		store:    store,
		api:      api,
		clearers: clearers,
	}
}

func (s *Service) Store() *Store {
	return s.store
}

type loginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// SignIn exchanges credentials for a session via the core API and commits
// it. The caller is expected to respond with a full navigation to the
// application root, forcing the whole client state to re-initialise.
func (s *Service) SignIn(ctx context.Context, visitorID, email, password string) (sess Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.signIn")
	defer span.End()
	defer func() {
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	if email == "" || password == "" {
		return Session{}, ErrMissingCredentials
	}

	var loginResp loginResponse
	if err := s.api.Post(ctx, "/login", map[string]string{
		"email":    email,
		"password": password,
	}, &loginResp); err != nil {
		return Session{}, err
	}

	if loginResp.Token == "" {
		return Session{}, ErrMissingToken
	}

	sess = Session{
		AccessToken: loginResp.Token,
		User:        loginResp.User,
	}
	if err := s.store.Set(ctx, visitorID, sess); err != nil {
		return Session{}, fmt.Errorf("commit session: %w", err)
	}

	log.Debugf("visitor %s signed in", visitorID)
	return sess, nil
}

// SSOLogin commits a session from an already-obtained bearer token. The
// token arrives from an external exchange, so no user object is available
// until the profile is fetched.
func (s *Service) SSOLogin(ctx context.Context, visitorID, token string) (Session, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.ssoLogin")
	defer span.End()

	if token == "" {
		span.SetStatus(codes.Error, "empty token")
		return Session{}, ErrMissingToken
	}

	sess := Session{AccessToken: token}
	if err := s.store.Set(ctx, visitorID, sess); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Session{}, fmt.Errorf("commit session: %w", err)
	}

	return sess, nil
}

// SignOut fans clearing out to the dependent stores, then drops the
// session itself. All clear errors are collected and returned, but the
// caller must still navigate the visitor to the login page regardless -
// after SignOut returns, session, selected event and profile are all
// absent from memory even when persistence calls failed.
func (s *Service) SignOut(ctx context.Context, visitorID string) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.signOut")
	defer span.End()

	var errs error
	for _, clearer := range s.clearers {
		if err := clearer.Clear(ctx, visitorID); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	if err := s.store.Clear(ctx, visitorID); err != nil {
		errs = multierr.Append(errs, err)
	}

	if errs != nil {
		span.SetStatus(codes.Error, errs.Error())
	}
	return errs
}

// ForgotPassword asks the core API to start a password reset
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	if email == "" {
		return errors.New("email is required")
	}
	return s.api.Post(ctx, "/auth/forgot-password", map[string]string{"email": email}, nil)
}
