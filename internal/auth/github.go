package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const (
	githubDefaultBaseURL = "https://github.com"
	oauthScope           = "repo"
	deviceGrantType      = "urn:ietf:params:oauth:grant-type:device_code"
)

// RedirectURI returns the callback URL registered for the OAuth App on the given port.
func RedirectURI(port int) string {
	return fmt.Sprintf("http://localhost:%d/callback", port)
}

// GitHubOAuth talks to the GitHub OAuth endpoints and stores obtained tokens in its session.
// See https://docs.github.com/en/apps/oauth-apps/building-oauth-apps/authorizing-oauth-apps
type GitHubOAuth struct {
	clientID    string
	baseURL     string
	redirectURI string
	session     *Session
	client      *http.Client
	logger      *zap.Logger
}

// NewGitHubOAuth creates a GitHubOAuth bound to session.
// Pass an empty baseURL to use the real GitHub endpoints. Pass a test server URL in tests.
func NewGitHubOAuth(clientID string, baseURL string, redirectURI string, session *Session, logger *zap.Logger) *GitHubOAuth {
	if baseURL == "" {
		baseURL = githubDefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GitHubOAuth{
		clientID:    clientID,
		baseURL:     baseURL,
		redirectURI: redirectURI,
		session:     session,
		client:      &http.Client{Timeout: 15 * time.Second},
		logger:      logger,
	}
}

// Session returns the session tokens are stored in.
func (o *GitHubOAuth) Session() *Session {
	return o.session
}

// AuthorizeURL returns the browser URL that starts the authorization-code flow.
func (o *GitHubOAuth) AuthorizeURL() string {
	q := url.Values{}
	q.Set("client_id", o.clientID)
	q.Set("redirect_uri", o.redirectURI)
	q.Set("scope", oauthScope)
	return o.baseURL + "/login/oauth/authorize?" + q.Encode()
}

type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// ExchangeCode exchanges an authorization code for an access token and
// authenticates the session with it. The exchange is attempted exactly once.
func (o *GitHubOAuth) ExchangeCode(ctx context.Context, code string) error {
	body := map[string]string{
		"client_id":    o.clientID,
		"code":         code,
		"redirect_uri": o.redirectURI,
	}
	var raw tokenResponse
	if err := o.postJSON(ctx, "/login/oauth/access_token", body, &raw); err != nil {
		return fmt.Errorf("exchanging code: %w", err)
	}
	if raw.Error != "" {
		return &ProviderError{Code: raw.Error, Description: raw.ErrorDescription}
	}
	if raw.AccessToken == "" {
		return ErrNoAccessToken
	}
	o.session.attach(raw.AccessToken)
	o.logger.Debug("authorization code exchanged")
	return nil
}

// RequestCode requests a device code and user code from GitHub.
// The returned DeviceCodeResponse.UserCode must be shown to the user along with VerificationURI.
// Nothing is retained locally; the response is returned verbatim.
func (o *GitHubOAuth) RequestCode(ctx context.Context) (DeviceCodeResponse, error) {
	body := map[string]string{
		"client_id": o.clientID,
		"scope":     oauthScope,
	}
	var raw struct {
		DeviceCode       string `json:"device_code"`
		UserCode         string `json:"user_code"`
		VerificationURI  string `json:"verification_uri"`
		ExpiresIn        int    `json:"expires_in"`
		Interval         int    `json:"interval"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := o.postJSON(ctx, "/login/device/code", body, &raw); err != nil {
		return DeviceCodeResponse{}, fmt.Errorf("requesting device code: %w", err)
	}
	if raw.Error != "" {
		return DeviceCodeResponse{}, &ProviderError{Code: raw.Error, Description: raw.ErrorDescription}
	}
	return DeviceCodeResponse{
		DeviceCode:      raw.DeviceCode,
		UserCode:        raw.UserCode,
		VerificationURI: raw.VerificationURI,
		ExpiresIn:       raw.ExpiresIn,
		Interval:        raw.Interval,
	}, nil
}

// PollToken makes a single attempt to redeem deviceCode for an access token.
// The caller repeats it at the interval returned by RequestCode.
// authorization_pending and slow_down come back as PollPending and PollSlowDown;
// every other provider error is returned as a *ProviderError.
// On success the session is authenticated and the current user is fetched.
func (o *GitHubOAuth) PollToken(ctx context.Context, deviceCode string) (PollResult, error) {
	body := map[string]string{
		"client_id":   o.clientID,
		"device_code": deviceCode,
		"grant_type":  deviceGrantType,
	}
	var raw tokenResponse
	if err := o.postJSON(ctx, "/login/oauth/access_token", body, &raw); err != nil {
		return PollResult{}, fmt.Errorf("polling token: %w", err)
	}

	switch raw.Error {
	case "":
	case "authorization_pending":
		return PollResult{Status: PollPending}, nil
	case "slow_down":
		return PollResult{Status: PollSlowDown}, nil
	default:
		return PollResult{}, &ProviderError{Code: raw.Error, Description: raw.ErrorDescription}
	}
	if raw.AccessToken == "" {
		return PollResult{}, ErrNoAccessToken
	}

	o.session.attach(raw.AccessToken)
	user, err := o.session.User(ctx)
	if err != nil {
		return PollResult{}, fmt.Errorf("fetching user: %w", err)
	}
	return PollResult{Status: PollGranted, User: user, Token: raw.AccessToken}, nil
}

func (o *GitHubOAuth) postJSON(ctx context.Context, path string, body interface{}, target interface{}) error {
	endpoint, err := url.JoinPath(o.baseURL, path)
	if err != nil {
		return fmt.Errorf("building URL: %w", err)
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decoding response (%s): %w", resp.Status, err)
	}
	return nil
}
