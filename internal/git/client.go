package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"go.uber.org/zap"

	"github.com/waabox/plugforge/internal/process"
)

// Client performs repository operations on a local working tree.
// Clone, init and staging go through go-git; submodule commands are delegated
// to the git executable because go-git cannot add submodules.
type Client struct {
	runner process.Runner
	logger *zap.Logger
	// Token, when set, is sent as HTTP basic auth on clones so private
	// templates can be fetched.
	Token string
	// Progress, when set, receives clone progress output.
	Progress io.Writer
}

// NewClient creates a repository client that shells out through runner.
func NewClient(runner process.Runner, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{runner: runner, logger: logger}
}

// Clone clones url into dir. It fails when dir already exists and is not empty.
func (c *Client) Clone(ctx context.Context, url string, dir string) error {
	if err := ensureEmptyOrMissing(dir); err != nil {
		return err
	}
	opts := &gogit.CloneOptions{URL: url, Progress: c.Progress}
	if c.Token != "" && isHTTPURL(url) {
		opts.Auth = &githttp.BasicAuth{Username: "x-access-token", Password: c.Token}
	}
	c.logger.Debug("cloning repository", zap.String("url", url), zap.String("dir", dir))
	if _, err := gogit.PlainCloneContext(ctx, dir, false, opts); err != nil {
		return fmt.Errorf("cloning %s: %w", url, err)
	}
	return nil
}

func isHTTPURL(url string) bool {
	return strings.HasPrefix(url, "https://") || strings.HasPrefix(url, "http://")
}

// RemoveHistory deletes the .git directory of the working tree at dir, if any.
func (c *Client) RemoveHistory(dir string) error {
	gitDir := filepath.Join(dir, ".git")
	if _, err := os.Lstat(gitDir); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := os.RemoveAll(gitDir); err != nil {
		return fmt.Errorf("removing %s: %w", gitDir, err)
	}
	return nil
}

// Init initializes a fresh repository in dir.
func (c *Client) Init(dir string) error {
	if _, err := gogit.PlainInit(dir, false); err != nil {
		return fmt.Errorf("initializing repository in %s: %w", dir, err)
	}
	return nil
}

// Add stages path (a file or directory, relative to dir) in the repository at dir.
func (c *Client) Add(dir string, path string) error {
	repo, err := gogit.PlainOpen(dir)
	if err != nil {
		return fmt.Errorf("opening repository %s: %w", dir, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("opening worktree: %w", err)
	}
	if _, err := wt.Add(path); err != nil {
		return fmt.Errorf("staging %s: %w", path, err)
	}
	return nil
}

// SubmoduleAdd registers url as a submodule at path inside the repository at dir.
func (c *Client) SubmoduleAdd(ctx context.Context, dir string, url string, path string) error {
	return c.runner.Run(ctx, dir, "git", "submodule", "add", url, path)
}

// SubmoduleUpdate initializes and updates all submodules recursively.
func (c *Client) SubmoduleUpdate(ctx context.Context, dir string) error {
	return c.runner.Run(ctx, dir, "git", "submodule", "update", "--init", "--recursive")
}

func ensureEmptyOrMissing(dir string) error {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", dir, err)
	}
	if len(entries) > 0 {
		return fmt.Errorf("destination path %s already exists and is not an empty directory", dir)
	}
	return nil
}
