package corehub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gatherly-app/gatherly-web/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Client is the unauthenticated ("public") client towards the core API.
// It is used for the endpoints reachable before login: password login,
// SSO initiation, the SSO code exchange and forgot-password.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out, "")
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out, "")
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out, "")
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, "")
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, bearerToken string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "corehub.do")
	defer span.End()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "ok")
		}
	}()
	span.SetAttributes(attribute.String("http.method", method))
	span.SetAttributes(attribute.String("core.path", path))

	var reqBody io.Reader
	if body != nil {
		bodyBytes, mErr := json.Marshal(body)
		if mErr != nil {
			return fmt.Errorf("marshal request body: %w", mErr)
		}
		reqBody = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+bearerToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("core api call %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read core api response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessageFromBody(respBytes),
		}
	}

	if out != nil && len(respBytes) > 0 {
		if err := json.Unmarshal(respBytes, out); err != nil {
			return fmt.Errorf("unmarshal core api response: %w", err)
		}
	}

	return nil
}

// errorMessageFromBody digs the server-provided message out of an error
// response body; the core API is not fully consistent about the field name
func errorMessageFromBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var errBody struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errBody); err != nil {
		log.Tracef("core api error body not json: %s", body)
		return ""
	}

	if errBody.Error != "" {
		return errBody.Error
	}
	return errBody.Message
}
