package git_test

import (
	"testing"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"

	"github.com/waabox/plugforge/internal/git"
)

func TestParseRemoteURL_GitHub(t *testing.T) {
	url := "https://github.com/acme/plugin-template.git"
	repo, err := git.ParseRemoteURL(url)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.Owner != "acme" {
		t.Errorf("expected owner 'acme', got '%s'", repo.Owner)
	}
	if repo.Name != "plugin-template" {
		t.Errorf("expected name 'plugin-template', got '%s'", repo.Name)
	}
	if repo.RemoteURL != url {
		t.Errorf("expected remoteURL '%s', got '%s'", url, repo.RemoteURL)
	}
}

func TestParseRemoteURL_GitHubSSH(t *testing.T) {
	url := "git@github.com:acme/gui-template.git"
	repo, err := git.ParseRemoteURL(url)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.Owner != "acme" {
		t.Errorf("expected owner 'acme', got '%s'", repo.Owner)
	}
	if repo.Name != "gui-template" {
		t.Errorf("expected name 'gui-template', got '%s'", repo.Name)
	}
}

func TestParseRemoteURL_Shorthand(t *testing.T) {
	repo, err := git.ParseRemoteURL("acme/plugin-template")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.Owner != "acme" || repo.Name != "plugin-template" {
		t.Errorf("expected acme/plugin-template, got '%s/%s'", repo.Owner, repo.Name)
	}
}

func TestParseRemoteURL_Invalid(t *testing.T) {
	for _, url := range []string{"not-a-url", "https://github.com/", "git@github.com:onlyowner"} {
		if _, err := git.ParseRemoteURL(url); err == nil {
			t.Errorf("expected error for %q, got nil", url)
		}
	}
}

func TestDetectRepository_ReadsOriginRemote(t *testing.T) {
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	_, err = repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{"https://github.com/acme/fuzzbox.git"},
	})
	if err != nil {
		t.Fatal(err)
	}

	detected, err := git.DetectRepository(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detected.Owner != "acme" {
		t.Errorf("expected owner 'acme', got '%s'", detected.Owner)
	}
	if detected.Name != "fuzzbox" {
		t.Errorf("expected name 'fuzzbox', got '%s'", detected.Name)
	}
}

func TestDetectRepository_NoOrigin(t *testing.T) {
	dir := t.TempDir()
	if _, err := gogit.PlainInit(dir, false); err != nil {
		t.Fatal(err)
	}
	if _, err := git.DetectRepository(dir); err == nil {
		t.Fatal("expected error when origin is missing, got nil")
	}
}
