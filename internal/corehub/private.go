package corehub

import (
	"context"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// TokenSource yields the access token of the visitor behind the given
// context, if that visitor currently holds a session
type TokenSource interface {
	AccessToken(ctx context.Context) (string, bool)
}

// PrivateClient is the authenticated client towards the core API. It reads
// the visitor session on every request (not once at construction - the
// observed snapshot-once behaviour loses sessions established after
// startup) and attaches the bearer token when a session is present.
//
// A 401 from the core API invalidates the visitor session via the
// onUnauthorized hook and surfaces as ErrUnauthorized. Requests are never
// retried, so a single 401 triggers the hook at most once per call.
type PrivateClient struct {
	client         *Client
	tokens         TokenSource
	onUnauthorized func(ctx context.Context)
}

func NewPrivateClient(
	baseURL string,
	httpClient *http.Client,
	tokens TokenSource,
	onUnauthorized func(ctx context.Context),
) *PrivateClient {
	return &PrivateClient{
		client:         NewClient(baseURL, httpClient),
		tokens:         tokens,
		onUnauthorized: onUnauthorized,
	}
}

func (c *PrivateClient) Get(ctx context.Context, path string, out any) error {
	return c.checkUnauthorized(ctx, c.client.do(ctx, http.MethodGet, path, nil, out, c.token(ctx)))
}

func (c *PrivateClient) Post(ctx context.Context, path string, body, out any) error {
	return c.checkUnauthorized(ctx, c.client.do(ctx, http.MethodPost, path, body, out, c.token(ctx)))
}

func (c *PrivateClient) Put(ctx context.Context, path string, body, out any) error {
	return c.checkUnauthorized(ctx, c.client.do(ctx, http.MethodPut, path, body, out, c.token(ctx)))
}

func (c *PrivateClient) Delete(ctx context.Context, path string) error {
	return c.checkUnauthorized(ctx, c.client.do(ctx, http.MethodDelete, path, nil, nil, c.token(ctx)))
}

func (c *PrivateClient) token(ctx context.Context) string {
	token, ok := c.tokens.AccessToken(ctx)
	if !ok {
		// no session - the request goes out without credentials and the
		// core API decides; matches the contract that callers never
		// attach auth headers themselves
		return ""
	}
	return token
}

func (c *PrivateClient) checkUnauthorized(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		log.Tracef("core api rejected the bearer token, invalidating session")
		if c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		return ErrUnauthorized
	}

	return err
}
