package sso

import (
	"context"
	"errors"
	"net/url"
)

const (
	ProviderGoogle   = "google"
	ProviderFacebook = "facebook"
)

var (
	ErrNoRedirectURL = errors.New("no authorization url received")
	ErrNoToken       = errors.New("token missing from provider callback")
	ErrNoCode        = errors.New("authorization code missing from provider callback")
	ErrTokenNotSent  = errors.New("token not received")
)

// Provider abstracts one external identity provider. The flow is the same
// for all of them: Initiate obtains the provider-hosted consent URL to
// navigate the browser to, and CompleteCallback turns the parameters the
// provider redirected back with into a usable bearer token. How the token
// is obtained is the provider-specific part: Google completes the
// exchange server-side and sends the token directly, Facebook sends an
// authorization code that needs one more round trip.
type Provider interface {
	Name() string
	Initiate(ctx context.Context, callbackURL string) (redirectURL string, err error)
	CompleteCallback(ctx context.Context, callbackURL string, params url.Values) (token string, err error)
}
