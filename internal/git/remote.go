package git

import (
	"errors"
	"fmt"
	"strings"

	gogit "github.com/go-git/go-git/v5"

	"github.com/waabox/plugforge/internal/domain"
)

// DetectRepository opens the repository in dir and returns a Repository built
// from the origin remote URL.
func DetectRepository(dir string) (domain.Repository, error) {
	repo, err := gogit.PlainOpen(dir)
	if err != nil {
		return domain.Repository{}, fmt.Errorf("could not open repository: %w", err)
	}
	remote, err := repo.Remote("origin")
	if err != nil {
		if errors.Is(err, gogit.ErrRemoteNotFound) {
			return domain.Repository{}, errors.New("no origin remote found")
		}
		return domain.Repository{}, fmt.Errorf("reading origin remote: %w", err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return domain.Repository{}, errors.New("origin remote has no URL")
	}
	return ParseRemoteURL(urls[0])
}

// ParseRemoteURL parses a git remote URL and returns a Repository.
// Supports HTTPS (https://github.com/owner/repo.git), SSH (git@github.com:owner/repo.git)
// and the owner/repo shorthand.
// The RemoteURL field in the returned Repository preserves the original input URL unchanged.
func ParseRemoteURL(rawURL string) (domain.Repository, error) {
	originalURL := rawURL
	normalized := strings.TrimSuffix(strings.TrimSpace(rawURL), ".git")

	// SSH format: git@github.com:owner/repo
	if strings.HasPrefix(normalized, "git@") {
		trimmed := strings.TrimPrefix(normalized, "git@")
		parts := strings.SplitN(trimmed, ":", 2)
		if len(parts) != 2 {
			return domain.Repository{}, fmt.Errorf("invalid SSH remote URL: %s", rawURL)
		}
		return splitOwnerRepo(parts[1], originalURL)
	}

	// HTTPS format: https://github.com/owner/repo
	if strings.HasPrefix(normalized, "https://") || strings.HasPrefix(normalized, "http://") {
		withoutScheme := strings.TrimPrefix(normalized, "https://")
		withoutScheme = strings.TrimPrefix(withoutScheme, "http://")
		parts := strings.SplitN(withoutScheme, "/", 2)
		if len(parts) != 2 {
			return domain.Repository{}, fmt.Errorf("invalid HTTPS remote URL: %s", rawURL)
		}
		return splitOwnerRepo(parts[1], originalURL)
	}

	// Shorthand: owner/repo
	if strings.Count(normalized, "/") == 1 && !strings.ContainsAny(normalized, ":@ ") {
		return splitOwnerRepo(normalized, originalURL)
	}

	return domain.Repository{}, fmt.Errorf("unsupported remote URL format: %s", rawURL)
}

func splitOwnerRepo(path string, originalURL string) (domain.Repository, error) {
	ownerRepo := strings.SplitN(strings.Trim(path, "/"), "/", 2)
	if len(ownerRepo) != 2 || ownerRepo[0] == "" || ownerRepo[1] == "" {
		return domain.Repository{}, fmt.Errorf("invalid repository path: %s", path)
	}
	return domain.Repository{
		Owner:     ownerRepo[0],
		Name:      ownerRepo[1],
		RemoteURL: originalURL,
	}, nil
}
