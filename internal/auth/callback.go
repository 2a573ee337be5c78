package auth

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DefaultCallbackTimeout bounds how long the listener waits for the browser redirect.
const DefaultCallbackTimeout = 5 * time.Minute

const shutdownGrace = 5 * time.Second

// CodeExchanger redeems an authorization code. *GitHubOAuth implements it.
type CodeExchanger interface {
	ExchangeCode(ctx context.Context, code string) error
}

// CallbackListener runs the local half of the authorization-code flow: it
// serves GET /callback once, exchanges the delivered code and shuts down.
type CallbackListener struct {
	addr         string
	authorizeURL string
	exchanger    CodeExchanger
	logger       *zap.Logger

	// Timeout overrides DefaultCallbackTimeout when positive.
	Timeout time.Duration
	// OpenBrowser is called with the authorization URL once the listener is bound.
	// Defaults to OpenBrowser.
	OpenBrowser func(url string) error
}

// NewCallbackListener creates a listener bound to addr (e.g. "127.0.0.1:3000")
// that sends the user to authorizeURL and hands the returned code to exchanger.
func NewCallbackListener(addr string, authorizeURL string, exchanger CodeExchanger, logger *zap.Logger) *CallbackListener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CallbackListener{
		addr:         addr,
		authorizeURL: authorizeURL,
		exchanger:    exchanger,
		logger:       logger,
		Timeout:      DefaultCallbackTimeout,
		OpenBrowser:  OpenBrowser,
	}
}

// Run binds the listener address and waits for the callback. See Serve.
func (l *CallbackListener) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", l.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", l.addr, err)
	}
	return l.Serve(ctx, ln)
}

// Serve accepts the browser callback on ln until the first request to
// /callback resolves the flow, the timeout elapses or ctx is done.
// ln is always closed before Serve returns.
func (l *CallbackListener) Serve(ctx context.Context, ln net.Listener) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	result := make(chan error, 1)
	var once sync.Once
	resolve := func(err error) {
		once.Do(func() { result <- err })
	}

	r := chi.NewRouter()
	r.Get("/callback", l.callbackHandler(runCtx, resolve))
	srv := &http.Server{Handler: r, ReadHeaderTimeout: 10 * time.Second}

	served := make(chan struct{})
	go func() {
		defer close(served)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			resolve(fmt.Errorf("callback server: %w", err))
		}
	}()

	l.logger.Debug("waiting for OAuth callback", zap.String("addr", ln.Addr().String()))
	if l.OpenBrowser != nil {
		if err := l.OpenBrowser(l.authorizeURL); err != nil {
			l.logger.Warn("could not open browser", zap.String("url", l.authorizeURL), zap.Error(err))
		}
	}

	timeout := l.Timeout
	if timeout <= 0 {
		timeout = DefaultCallbackTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var outcome error
	select {
	case outcome = <-result:
	case <-timer.C:
		resolve(ErrAuthTimeout)
		outcome = <-result
	case <-ctx.Done():
		resolve(ctx.Err())
		outcome = <-result
	}

	// Abort an in-flight exchange before waiting for handlers to drain.
	cancel()
	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownGrace)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		_ = srv.Close()
	}
	<-served

	if outcome != nil {
		l.logger.Debug("OAuth callback flow failed", zap.Error(outcome))
	}
	return outcome
}

// callbackHandler handles the first request to /callback and resolves the flow
// with its outcome. Later requests are rejected.
func (l *CallbackListener) callbackHandler(ctx context.Context, resolve func(error)) http.HandlerFunc {
	var claimed atomic.Bool
	return func(w http.ResponseWriter, r *http.Request) {
		if !claimed.CompareAndSwap(false, true) {
			writePage(w, http.StatusConflict, "Authorization already handled", "This request was ignored.")
			return
		}

		q := r.URL.Query()
		if reason := q.Get("error"); reason != "" {
			writePage(w, http.StatusOK, "Authorization failed", reason)
			resolve(&AuthorizationError{Reason: reason})
			return
		}

		code := q.Get("code")
		if code == "" {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, "Missing code parameter")
			resolve(ErrMissingCode)
			return
		}

		if err := l.exchanger.ExchangeCode(ctx, code); err != nil {
			writePage(w, http.StatusInternalServerError, "Token exchange failed", err.Error())
			resolve(err)
			return
		}
		writePage(w, http.StatusOK, "Successfully authenticated!", "Return to plugforge to continue.")
		resolve(nil)
	}
}

func writePage(w http.ResponseWriter, status int, title string, detail string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, `<html>
  <body style="font-family: system-ui; text-align: center; padding: 50px;">
    <h2>%s</h2>
    <p>%s</p>
    <p>You can close this window.</p>
  </body>
</html>
`, html.EscapeString(title), html.EscapeString(detail))
}
