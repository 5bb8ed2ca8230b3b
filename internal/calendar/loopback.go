package calendar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/mari8i/remind-me-the-hard-way/internal/logger"
)

// LoopbackFlow is the installed-application authorization flow: a one-shot
// HTTP listener on 127.0.0.1 receives the redirect carrying the code.
type LoopbackFlow struct {
	// Open shows the consent page to the user. Failures are not fatal, the
	// URL is always printed to Out as well.
	Open func(url string) error
	Out  io.Writer
	// Addr defaults to 127.0.0.1:0 (any free port).
	Addr string
}

var _ InteractiveFlow = (*LoopbackFlow)(nil)

type callbackResult struct {
	code string
	err  error
}

const callbackPage = `<html><body><p>Authorization complete. You can close this window.</p></body></html>`

// Authenticate blocks until the browser redirect arrives or ctx is done.
func (f *LoopbackFlow) Authenticate(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	if config == nil {
		return nil, NewCredentialError("login", "no OAuth client configured")
	}

	addr := f.Addr
	if addr == "" {
		addr = "127.0.0.1:0"
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, NewCredentialError("login", "cannot listen for the authorization redirect").WithCause(err)
	}

	port := listener.Addr().(*net.TCPAddr).Port
	flowConfig := *config
	flowConfig.RedirectURL = fmt.Sprintf("http://127.0.0.1:%d/", port)

	state := uuid.NewString()
	results := make(chan callbackResult, 1)

	server := &http.Server{Handler: callbackHandler(state, results)}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("authorization listener stopped", "error", err)
		}
	}()
	defer server.Close()

	authURL := flowConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)

	out := f.Out
	if out == nil {
		out = os.Stderr
	}
	fmt.Fprintf(out, "Please visit this URL to authorize this application:\n\n%s\n\n", authURL)
	if f.Open != nil {
		if err := f.Open(authURL); err != nil {
			logger.Warn("could not open the authorization page automatically", "error", err)
		}
	}

	logger.Info("Waiting for authorization", "redirect_url", flowConfig.RedirectURL)

	var result callbackResult
	select {
	case <-ctx.Done():
		return nil, NewCredentialError("login", "authorization aborted").WithCause(ctx.Err())
	case result = <-results:
	}
	if result.err != nil {
		return nil, result.err
	}

	token, err := flowConfig.Exchange(ctx, result.code)
	if err != nil {
		return nil, NewCredentialError("login", "authorization code exchange failed").WithCause(err)
	}
	return token, nil
}

func callbackHandler(state string, results chan<- callbackResult) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		if query.Get("code") == "" && query.Get("error") == "" {
			// favicon and friends
			http.NotFound(w, r)
			return
		}

		var result callbackResult
		switch {
		case query.Get("state") != state:
			result.err = NewCredentialError("login", "state mismatch in authorization redirect")
		case query.Get("error") != "":
			result.err = NewCredentialError("login", "authorization denied: "+query.Get("error"))
		default:
			result.code = query.Get("code")
		}

		select {
		case results <- result:
		default:
			// a result is already pending; ignore duplicates
		}

		if result.err != nil {
			http.Error(w, result.err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, callbackPage)
	})
}
