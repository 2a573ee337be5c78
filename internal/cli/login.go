package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/waabox/plugforge/internal/auth"
	githubprovider "github.com/waabox/plugforge/internal/provider/github"
)

// defaultPollInterval applies when the device code response carries no interval.
const defaultPollInterval = 5 * time.Second

// slowDownStep is added to the device poll interval on every slow_down answer.
const slowDownStep = 5 * time.Second

var errDeviceCodeExpired = errors.New("device code expired before authorization completed")

// devicePoller performs one device-flow poll. *auth.GitHubOAuth implements it.
type devicePoller interface {
	PollToken(ctx context.Context, deviceCode string) (auth.PollResult, error)
}

func (a *app) newLoginCommand() *cobra.Command {
	var device bool
	var printToken bool
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with GitHub",
		Long: `Authenticate with GitHub. By default a local callback listener is started
and the browser is opened on the authorization page; --device uses the
device flow instead. The session lives only for this process: use
--print-token and export GITHUB_TOKEN to reuse it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, user, err := a.login(cmd.Context(), cmd.ErrOrStderr(), device)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Logged in as %s\n", user.Login)
			if printToken {
				fmt.Fprintln(cmd.OutOrStdout(), session.Token())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&device, "device", false, "Use the device flow instead of the browser callback")
	cmd.Flags().BoolVar(&printToken, "print-token", false, "Print the access token to stdout")
	return cmd
}

func (a *app) newWhoamiCommand() *cobra.Command {
	var device bool
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated GitHub user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, user, err := a.authenticate(cmd.Context(), cmd.ErrOrStderr(), device)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "login: %s\n", user.Login)
			if user.Name != "" {
				fmt.Fprintf(out, "name:  %s\n", user.Name)
			}
			if user.Email != "" {
				fmt.Fprintf(out, "email: %s\n", user.Email)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&device, "device", false, "Use the device flow when no token is configured")
	return cmd
}

// authenticate returns a session for API commands. A configured token is
// submitted directly; otherwise an interactive login runs.
func (a *app) authenticate(ctx context.Context, prompt io.Writer, device bool) (*auth.Session, githubprovider.User, error) {
	if a.cfg.GitHub.Token != "" {
		session := auth.NewSession(a.cfg.GitHub.APIURL)
		user, err := session.Authenticate(ctx, a.cfg.GitHub.Token)
		if err != nil {
			return nil, githubprovider.User{}, err
		}
		return session, user, nil
	}
	return a.login(ctx, prompt, device)
}

// login runs an interactive OAuth flow. All prompts go to prompt (stderr) so
// stdout stays clean for piping.
func (a *app) login(ctx context.Context, prompt io.Writer, device bool) (*auth.Session, githubprovider.User, error) {
	session := auth.NewSession(a.cfg.GitHub.APIURL)
	port := a.cfg.RedirectPortOrDefault()
	oauth := auth.NewGitHubOAuth(a.cfg.ClientIDOrDefault(), a.cfg.GitHub.OAuthURL, auth.RedirectURI(port), session, a.logger)

	if device {
		result, err := a.loginDevice(ctx, prompt, oauth)
		if err != nil {
			return nil, githubprovider.User{}, err
		}
		return session, result.User, nil
	}

	listener := auth.NewCallbackListener(fmt.Sprintf("127.0.0.1:%d", port), oauth.AuthorizeURL(), oauth, a.logger)
	listener.OpenBrowser = func(url string) error {
		fmt.Fprintf(prompt, "Opening %s\n", url)
		fmt.Fprintf(prompt, "Waiting for authorization (press ctrl+c to abort)...\n")
		if err := a.openBrowser(url); err != nil {
			a.logger.Warn("could not open browser", zap.Error(err))
			fmt.Fprintf(prompt, "Could not open a browser: visit the URL above manually.\n")
		}
		return nil
	}
	if err := listener.Run(ctx); err != nil {
		return nil, githubprovider.User{}, fmt.Errorf("GitHub authentication failed: %w", err)
	}
	user, err := session.User(ctx)
	if err != nil {
		return nil, githubprovider.User{}, fmt.Errorf("fetching user: %w", err)
	}
	return session, user, nil
}

func (a *app) loginDevice(ctx context.Context, prompt io.Writer, oauth *auth.GitHubOAuth) (auth.PollResult, error) {
	code, err := oauth.RequestCode(ctx)
	if err != nil {
		return auth.PollResult{}, fmt.Errorf("requesting device code: %w", err)
	}
	fmt.Fprintf(prompt, "Visit:      %s\n", code.VerificationURI)
	fmt.Fprintf(prompt, "Enter code: %s\n", code.UserCode)
	fmt.Fprintf(prompt, "Waiting for authorization...\n")
	if err := a.openBrowser(code.VerificationURI); err != nil {
		a.logger.Debug("could not open browser", zap.Error(err))
	}
	result, err := pollDeviceToken(ctx, oauth, code, a.sleep)
	if err != nil {
		return auth.PollResult{}, fmt.Errorf("GitHub authentication failed: %w", err)
	}
	return result, nil
}

// pollDeviceToken polls until the user grants access, the code expires or a
// terminal error is returned. It waits interval seconds before every attempt
// and backs off by slowDownStep on each slow_down answer.
func pollDeviceToken(ctx context.Context, poller devicePoller, code auth.DeviceCodeResponse, sleep func(context.Context, time.Duration) error) (auth.PollResult, error) {
	if code.ExpiresIn > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(code.ExpiresIn)*time.Second)
		defer cancel()
	}
	interval := time.Duration(code.Interval) * time.Second
	if interval <= 0 {
		interval = defaultPollInterval
	}

	for {
		if err := sleep(ctx, interval); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return auth.PollResult{}, errDeviceCodeExpired
			}
			return auth.PollResult{}, err
		}
		result, err := poller.PollToken(ctx, code.DeviceCode)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return auth.PollResult{}, errDeviceCodeExpired
			}
			return auth.PollResult{}, err
		}
		switch result.Status {
		case auth.PollGranted:
			return result, nil
		case auth.PollSlowDown:
			interval += slowDownStep
		}
	}
}
