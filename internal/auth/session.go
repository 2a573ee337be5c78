package auth

import (
	"context"
	"fmt"
	"sync"

	githubprovider "github.com/waabox/plugforge/internal/provider/github"
)

// Session holds the GitHub client of one authenticated user.
// It lives only as long as the process; nothing is persisted.
type Session struct {
	apiBaseURL string

	mu            sync.RWMutex
	client        *githubprovider.Client
	token         string
	authenticated bool
}

// NewSession creates an unauthenticated session.
// apiBaseURL is used for testing; pass empty string to use the real GitHub API.
func NewSession(apiBaseURL string) *Session {
	return &Session{apiBaseURL: apiBaseURL}
}

// Authenticated reports whether the session holds a usable token.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// Token returns the access token, or empty string when unauthenticated.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticate submits a token directly. The token is only accepted if the
// current user can be fetched with it.
func (s *Session) Authenticate(ctx context.Context, token string) (githubprovider.User, error) {
	client := githubprovider.NewClient(token, s.apiBaseURL)
	user, err := client.AuthenticatedUser(ctx)
	if err != nil {
		return githubprovider.User{}, fmt.Errorf("verifying token: %w", err)
	}
	s.set(client, token)
	return user, nil
}

func (s *Session) attach(token string) {
	s.set(githubprovider.NewClient(token, s.apiBaseURL), token)
}

func (s *Session) set(client *githubprovider.Client, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.client = client
	s.token = token
	s.authenticated = true
}

func (s *Session) current() (*githubprovider.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.authenticated || s.client == nil {
		return nil, ErrNotAuthenticated
	}
	return s.client, nil
}

// User returns the authenticated identity.
func (s *Session) User(ctx context.Context) (githubprovider.User, error) {
	client, err := s.current()
	if err != nil {
		return githubprovider.User{}, err
	}
	return client.AuthenticatedUser(ctx)
}

// CreateRepositoryFromTemplate creates owner/name from the template repository.
// An empty description and public visibility are the defaults.
func (s *Session) CreateRepositoryFromTemplate(ctx context.Context, req githubprovider.TemplateRequest) (githubprovider.Repository, error) {
	client, err := s.current()
	if err != nil {
		return githubprovider.Repository{}, err
	}
	return client.CreateFromTemplate(ctx, req)
}

// RepositoryExists reports whether owner/repo can be looked up.
// Any failure, including an unauthenticated session, yields false.
func (s *Session) RepositoryExists(ctx context.Context, owner string, repo string) bool {
	client, err := s.current()
	if err != nil {
		return false
	}
	_, err = client.GetRepository(ctx, owner, repo)
	return err == nil
}
