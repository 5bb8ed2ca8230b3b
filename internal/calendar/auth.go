package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/mari8i/remind-me-the-hard-way/internal/logger"
)

// InteractiveFlow obtains a brand new token with the user's involvement.
// It may block until the user completes the login.
type InteractiveFlow interface {
	Authenticate(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error)
}

// AuthManager implements the credential lifecycle: reuse the stored token,
// refresh it when it expired, or fall back to the interactive flow.
type AuthManager struct {
	oauth      *oauth2.Config
	store      CredentialStore
	flow       InteractiveFlow
	httpClient *http.Client

	// serializes Credentials so two expiring requests never race into the flow
	mu sync.Mutex
}

// LoadOAuthConfig reads the installed-application client secrets file.
func LoadOAuthConfig(clientSecretsFile string, scopes ...string) (*oauth2.Config, error) {
	data, err := os.ReadFile(clientSecretsFile)
	if err != nil {
		return nil, NewCredentialError("client_secrets", fmt.Sprintf("cannot read %s", clientSecretsFile)).WithCause(err)
	}

	if len(scopes) == 0 {
		scopes = CalendarScopes
	}

	config, err := google.ConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, NewCredentialError("client_secrets", fmt.Sprintf("cannot parse %s", clientSecretsFile)).WithCause(err)
	}
	return config, nil
}

// NewAuthManager wires the OAuth client, the store and the interactive flow.
// httpClient, when set, carries every token endpoint request.
func NewAuthManager(oauthConfig *oauth2.Config, store CredentialStore, flow InteractiveFlow, httpClient *http.Client) *AuthManager {
	return &AuthManager{
		oauth:      oauthConfig,
		store:      store,
		flow:       flow,
		httpClient: httpClient,
	}
}

// Credentials returns a usable token, persisting it whenever it changed.
// The interactive flow may block indefinitely; ctx is its only bound.
func (a *AuthManager) Credentials(ctx context.Context) (*oauth2.Token, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	logger.Info("Reading google calendar credentials")

	token, err := a.store.Load()
	switch {
	case err == nil && token.Valid():
		logger.Debug("stored token is valid", "expiry", token.Expiry)
		return token, nil

	case err == nil && token.RefreshToken != "":
		logger.Info("Stored token expired, refreshing", "expiry", token.Expiry)
		refreshed, refreshErr := a.store.Refresh(ctx, token)
		if refreshErr == nil {
			if err := a.store.Save(refreshed); err != nil {
				return nil, err
			}
			return refreshed, nil
		}
		logger.Warn("token refresh failed, starting interactive login", "error", refreshErr)

	case err == nil:
		logger.Warn("stored token expired and cannot be refreshed, starting interactive login")

	case errors.Is(err, ErrNoCredentials):
		logger.Info("No stored credentials, starting interactive login")

	default:
		logger.Warn("stored credentials unreadable, starting interactive login", "error", err)
	}

	return a.Login(ctx)
}

// Login runs the interactive flow unconditionally and stores the result.
func (a *AuthManager) Login(ctx context.Context) (*oauth2.Token, error) {
	if a.flow == nil {
		return nil, NewCredentialError("login", "no interactive flow configured")
	}

	token, err := a.flow.Authenticate(a.withHTTPClient(ctx), a.oauth)
	if err != nil {
		var credErr *CredentialError
		if errors.As(err, &credErr) {
			return nil, err
		}
		return nil, NewCredentialError("login", "interactive authorization failed").WithCause(err)
	}

	if err := a.store.Save(token); err != nil {
		return nil, err
	}
	logger.Info("Credentials saved", "has_refresh_token", token.RefreshToken != "")
	return token, nil
}

// HasValidToken reports whether the store holds a token usable without
// user interaction.
func (a *AuthManager) HasValidToken() bool {
	token, err := a.store.Load()
	if err != nil {
		return false
	}
	return token.Valid() || token.RefreshToken != ""
}

// Logout removes the stored token.
func (a *AuthManager) Logout() error {
	return a.store.Clear()
}

// TokenSource exposes Credentials as an oauth2.TokenSource. The returned
// source caches the token in memory until it expires.
func (a *AuthManager) TokenSource(ctx context.Context) oauth2.TokenSource {
	return oauth2.ReuseTokenSource(nil, &credentialSource{ctx: ctx, auth: a})
}

// HTTPClient returns an authorized client for the Calendar API.
func (a *AuthManager) HTTPClient(ctx context.Context) *http.Client {
	return oauth2.NewClient(a.withHTTPClient(ctx), a.TokenSource(ctx))
}

func (a *AuthManager) withHTTPClient(ctx context.Context) context.Context {
	if a.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
}

type credentialSource struct {
	ctx  context.Context
	auth *AuthManager
}

func (s *credentialSource) Token() (*oauth2.Token, error) {
	token, err := s.auth.Credentials(s.ctx)
	if err != nil {
		logger.Error("failed to obtain credentials", "error", err)
		return nil, err
	}
	return token, nil
}
