package auth

import (
	"os/exec"
	"runtime"
	"strings"
)

// OpenBrowser opens target in the user's default browser without waiting for it.
func OpenBrowser(target string) error {
	if strings.TrimSpace(target) == "" {
		return nil
	}
	_, err := startDetached(browserCommand(runtime.GOOS, target))
	return err
}

func browserCommand(goos string, target string) *exec.Cmd {
	switch goos {
	case "darwin":
		return exec.Command("open", target)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
	default:
		return exec.Command("xdg-open", target)
	}
}

// startDetached starts cmd and reaps it in the background. The returned
// channel receives the exit result once the process is gone.
func startDetached(cmd *exec.Cmd) (<-chan error, error) {
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()
	return done, nil
}
