package authflow

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "http://localhost:8000"
	defaultTimeout = 10 * time.Second

	routeSendOTP     = "/send-otp/"
	routeVerifyOTP   = "/verify-otp/"
	routeSignup      = "/signup/"
	routeSaveHistory = "/save-user-history/"
	// Path as deployed on the service, typo included.
	routeHealthCheck = "/heath_check"
)

// Fallback messages used when a failure carries no usable description.
const (
	msgSendOTPFailed  = "Failed to send OTP"
	msgVerifyFailed   = "OTP verification failed"
	msgSignupFailed   = "Signup failed"
	msgHistoryFailed  = "Failed to save history"
	msgNetworkFailure = "Network error occurred"
	msgMalformedReply = "Unexpected response from auth service"
)

// ClientConfig holds transport settings for the remote auth service.
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration

	HTTPClient *http.Client
	Logger     Logger
}

// Client talks to the SafeCheck auth service over HTTP/JSON. Transport and
// protocol failures never escape as Go errors; each call returns the uniform
// Result envelope.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     Logger
}

var _ Transport = (*Client)(nil)
var _ HistoryRecorder = (*Client)(nil)

// NewClient creates a transport client, filling unset config with defaults.
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = defLogger{}
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: client,
		logger:     logger,
	}
}

// SendOTP asks the service to dispatch a one-time code to email. The service
// acknowledges dispatch only; delivery is out-of-band.
func (c *Client) SendOTP(ctx context.Context, email string) Result[OTPDispatch] {
	return postJSON[OTPDispatch](ctx, c, routeSendOTP, map[string]string{
		"email": email,
	}, msgSendOTPFailed)
}

// VerifyOTP submits a code for the given email. The remote service is the
// sole authority on code correctness and expiry.
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) Result[Identity] {
	return postJSON[Identity](ctx, c, routeVerifyOTP, map[string]string{
		"email": email,
		"otp":   otp,
	}, msgVerifyFailed)
}

// Signup registers a new account. It does not return a usable session; the
// account still has to complete the code flow to sign in.
func (c *Client) Signup(ctx context.Context, req SignupRequest) Result[Identity] {
	return postJSON[Identity](ctx, c, routeSignup, req, msgSignupFailed)
}

// SaveHistory forwards an audit entry to the service's history endpoint.
func (c *Client) SaveHistory(ctx context.Context, entry HistoryEntry) Result[HistoryReceipt] {
	return postJSON[HistoryReceipt](ctx, c, routeSaveHistory, entry, msgHistoryFailed)
}

// HealthCheck reports whether the service answers at all.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+routeHealthCheck, nil)
	if err != nil {
		return err
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	io.Copy(io.Discard, res.Body)

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return ErrServiceUnhealthy.WithMetadata(map[string]any{
			"status": res.StatusCode,
		})
	}
	return nil
}

func postJSON[T any](ctx context.Context, c *Client, path string, payload any, fallback string) Result[T] {
	body, err := json.Marshal(payload)
	if err != nil {
		c.logger.Error("encode %s payload: %v", path, err)
		return Fail[T](fallback)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		c.logger.Error("build %s request: %v", path, err)
		return Fail[T](fallback)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("%s request failed: %v", path, err)
		return Fail[T](msgNetworkFailure)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		c.logger.Error("read %s response: %v", path, err)
		return Fail[T](msgNetworkFailure)
	}

	var envelope Result[T]
	if err := json.Unmarshal(raw, &envelope); err != nil {
		c.logger.Error("decode %s response (status %d): %v", path, res.StatusCode, err)
		return Fail[T](msgMalformedReply)
	}

	// A structured success:false body passes through whatever its transport
	// status was, so the service's own message reaches the caller.
	if !envelope.Success {
		envelope.Data = nil
		envelope.Message = envelope.MessageOr(fallback)
		return envelope
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		c.logger.Error("%s returned success body with status %d", path, res.StatusCode)
		return Fail[T](fallback)
	}

	return envelope
}
