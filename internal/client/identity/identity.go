// Package identity talks to the external identity service over HTTP.
package identity

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atinyakov/ownerhub/internal/models"
)

const (
	apiRegister = "/api/owners/register"
	apiMe       = "/api/owners/me"

	// RequestIDHeader carries the per-request correlation id.
	RequestIDHeader = "X-Request-ID"

	maxMessageBytes = 4 << 10
)

var (
	// ErrUnexpectedStatus is returned for responses that are neither a
	// success nor a client error.
	ErrUnexpectedStatus = errors.New("unexpected status from identity service")
	// ErrUnauthorized is returned by Me when the token is not accepted.
	ErrUnauthorized = errors.New("identity service rejected the token")
	// ErrEmptyOwner is returned when a success carries no usable owner.
	ErrEmptyOwner = errors.New("empty owner payload")
)

// Response is the outcome of a registration call that reached the service.
type Response struct {
	// StatusCode is the HTTP status.
	StatusCode int
	// StatusText is the service-provided message of a client error.
	// It may be empty.
	StatusText string
	// Owner is set on success.
	Owner *models.Owner
}

// ClientError reports whether the service rejected the request (4xx).
func (r *Response) ClientError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 500
}

// Client calls the identity service rooted at BaseURL.
type Client struct {
	// BaseURL is the service root, e.g. "https://localhost:8443".
	BaseURL string
	// HTTP performs the requests.
	HTTP *http.Client
	log  *zap.Logger
}

// New returns a Client. A nil httpClient uses a plain client with a
// ten second timeout; a nil log discards output.
func New(baseURL string, httpClient *http.Client, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), HTTP: httpClient, log: log}
}

// Register submits req. A non-nil Response is returned for 2xx and 4xx
// answers. Transport failures, 5xx answers and payloads that do not decode
// to an owner with an id and a token are returned as errors.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*Response, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode register request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+apiRegister, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("build register request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("register failed: %w", err)
	}
	defer resp.Body.Close()

	out := &Response{StatusCode: resp.StatusCode}
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var owner models.Owner
		if err := json.NewDecoder(resp.Body).Decode(&owner); err != nil {
			return nil, fmt.Errorf("invalid response: %w", err)
		}
		if owner.ID == "" || owner.Token == "" {
			return nil, fmt.Errorf("invalid response: %w", ErrEmptyOwner)
		}
		out.Owner = &owner
		return out, nil
	case out.ClientError():
		out.StatusText = readMessage(resp.Body)
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}
}

// Me returns the owner the token belongs to.
func (c *Client) Me(ctx context.Context, token string) (models.Owner, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+apiMe, nil)
	if err != nil {
		return models.Owner{}, fmt.Errorf("build me request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.do(httpReq)
	if err != nil {
		return models.Owner{}, fmt.Errorf("me failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return models.Owner{}, ErrUnauthorized
	case resp.StatusCode != http.StatusOK:
		return models.Owner{}, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	var owner models.Owner
	if err := json.NewDecoder(resp.Body).Decode(&owner); err != nil {
		return models.Owner{}, fmt.Errorf("invalid response: %w", err)
	}
	return owner, nil
}

// Verify adapts Me to a session verifier: a rejected token is invalid,
// any other failure is reported as an error.
func (c *Client) Verify(ctx context.Context, o models.Owner) (bool, error) {
	_, err := c.Me(ctx, o.Token)
	if errors.Is(err, ErrUnauthorized) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	id := uuid.NewString()
	req.Header.Set(RequestIDHeader, id)

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.log.Warn("identity request failed",
			zap.String("request_id", id),
			zap.String("path", req.URL.Path),
			zap.Error(err),
		)
		return nil, err
	}
	c.log.Debug("identity request",
		zap.String("request_id", id),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)
	return resp, nil
}

func readMessage(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, maxMessageBytes))
	return strings.TrimSpace(string(data))
}

// NewHTTPClient returns a client trusting the CA in caFile. An empty
// caFile uses the system roots.
func NewHTTPClient(caFile string, timeout time.Duration) (*http.Client, error) {
	if caFile == "" {
		return &http.Client{Timeout: timeout}, nil
	}
	caCert, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA cert: %w", err)
	}
	caPool := x509.NewCertPool()
	if !caPool.AppendCertsFromPEM(caCert) {
		return nil, errors.New("failed to parse CA cert")
	}
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			RootCAs:    caPool,
			MinVersion: tls.VersionTLS12,
		},
	}
	return &http.Client{Transport: transport, Timeout: timeout}, nil
}
