package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/waabox/plugforge/internal/domain"
)

const defaultBaseURL = "https://api.github.com"

// User is the subset of the authenticated GitHub identity plugforge shows.
type User struct {
	Login   string `json:"login"`
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	HTMLURL string `json:"html_url"`
}

// Repository is the subset of a GitHub repository returned by the API.
type Repository struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	Private  bool   `json:"private"`
	HTMLURL  string `json:"html_url"`
	CloneURL string `json:"clone_url"`
	SSHURL   string `json:"ssh_url"`
}

// TemplateRequest describes a repository to create from a template repository.
type TemplateRequest struct {
	TemplateOwner string
	TemplateRepo  string
	Owner         string
	Name          string
	Description   string
	Private       bool
}

// Client is a token-authenticated GitHub REST API client.
type Client struct {
	token   string
	baseURL string
	client  *http.Client
}

// NewClient creates a GitHub API client.
// baseURL is used for testing; pass empty string to use the real GitHub API.
func NewClient(token string, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		token:   token,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// AuthenticatedUser returns the identity the token belongs to.
func (c *Client) AuthenticatedUser(ctx context.Context) (User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/user", nil, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// CreateFromTemplate creates a new repository from a template repository.
func (c *Client) CreateFromTemplate(ctx context.Context, req TemplateRequest) (Repository, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/generate", c.baseURL, req.TemplateOwner, req.TemplateRepo)
	body := struct {
		Owner       string `json:"owner"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Private     bool   `json:"private"`
	}{
		Owner:       req.Owner,
		Name:        req.Name,
		Description: req.Description,
		Private:     req.Private,
	}
	var repo Repository
	if err := c.do(ctx, http.MethodPost, url, body, &repo); err != nil {
		return Repository{}, err
	}
	return repo, nil
}

// GetRepository returns a single repository.
func (c *Client) GetRepository(ctx context.Context, owner string, name string) (Repository, error) {
	url := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, owner, name)
	var repo Repository
	if err := c.do(ctx, http.MethodGet, url, nil, &repo); err != nil {
		return Repository{}, err
	}
	return repo, nil
}

func (c *Client) do(ctx context.Context, method string, url string, payload interface{}, target interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("github API error: %w", domain.ErrUnauthorized)
	}
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Message string `json:"message"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("github API error: %s: %s", resp.Status, apiErr.Message)
		}
		return fmt.Errorf("github API error: %s", resp.Status)
	}
	if target == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(target)
}
