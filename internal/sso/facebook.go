package sso

import (
	"context"
	"fmt"
	"net/url"

	"github.com/gatherly-app/gatherly-web/internal/corehub"
)

type FacebookProvider struct {
	api *corehub.Client
}

func NewFacebookProvider(api *corehub.Client) *FacebookProvider {
	return &FacebookProvider{api: api}
}

func (p *FacebookProvider) Name() string {
	return ProviderFacebook
}

func (p *FacebookProvider) Initiate(ctx context.Context, callbackURL string) (string, error) {
	var redirectURL string
	path := fmt.Sprintf("/auth/facebook?callback=%s", url.QueryEscape(callbackURL))
	if err := p.api.Get(ctx, path, &redirectURL); err != nil {
		return "", fmt.Errorf("get facebook auth url: %w", err)
	}
	if redirectURL == "" {
		return "", ErrNoRedirectURL
	}
	return redirectURL, nil
}

type ssoLoginRequest struct {
	Code        string `json:"code"`
	CallbackURL string `json:"callbackUrl"`
	Provider    string `json:"provider"`
}

type ssoLoginResponse struct {
	Token string `json:"token"`
}

// CompleteCallback gets an authorization code back from Facebook and
// exchanges it for a token through the core API. The callback URL has to
// match the one the flow was initiated with, the provider rejects the
// exchange otherwise.
func (p *FacebookProvider) CompleteCallback(ctx context.Context, callbackURL string, params url.Values) (string, error) {
	code := params.Get("code")
	if code == "" {
		return "", ErrNoCode
	}

	var resp ssoLoginResponse
	req := ssoLoginRequest{
		Code:        code,
		CallbackURL: callbackURL,
		Provider:    ProviderFacebook,
	}
	if err := p.api.Post(ctx, "/auth/login/sso", req, &resp); err != nil {
		return "", fmt.Errorf("exchange facebook code: %w", err)
	}
	if resp.Token == "" {
		return "", ErrTokenNotSent
	}
	return resp.Token, nil
}
