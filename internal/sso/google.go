package sso

import (
	"context"
	"fmt"
	"net/url"

	"github.com/gatherly-app/gatherly-web/internal/corehub"
)

type GoogleProvider struct {
	api *corehub.Client
}

func NewGoogleProvider(api *corehub.Client) *GoogleProvider {
	return &GoogleProvider{api: api}
}

func (p *GoogleProvider) Name() string {
	return ProviderGoogle
}

func (p *GoogleProvider) Initiate(ctx context.Context, callbackURL string) (string, error) {
	var redirectURL string
	path := fmt.Sprintf("/auth/google?callback=%s", url.QueryEscape(callbackURL))
	if err := p.api.Get(ctx, path, &redirectURL); err != nil {
		return "", fmt.Errorf("get google auth url: %w", err)
	}
	if redirectURL == "" {
		return "", ErrNoRedirectURL
	}
	return redirectURL, nil
}

// CompleteCallback expects the token directly in the callback parameters,
// the core API finishes the code exchange on its side before redirecting.
func (p *GoogleProvider) CompleteCallback(_ context.Context, _ string, params url.Values) (string, error) {
	token := params.Get("token")
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}
