package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"

	"github.com/mari8i/remind-me-the-hard-way/internal/security"
)

// CredentialStore persists the OAuth credential between runs.
type CredentialStore interface {
	// Load returns ErrNoCredentials when nothing has been saved yet.
	Load() (*oauth2.Token, error)
	Save(token *oauth2.Token) error
	// Refresh exchanges the refresh token for a new access token. It does not save.
	Refresh(ctx context.Context, token *oauth2.Token) (*oauth2.Token, error)
	Clear() error
}

// FileCredentialStore keeps the token as JSON in a single file, optionally
// sealed with a machine-bound key.
type FileCredentialStore struct {
	path       string
	oauth      *oauth2.Config
	encryptor  *security.TokenEncryptor
	httpClient *http.Client
}

var _ CredentialStore = (*FileCredentialStore)(nil)

// NewFileCredentialStore creates a store at path. When encrypt is set the salt
// lives next to the token file.
func NewFileCredentialStore(path string, oauthConfig *oauth2.Config, httpClient *http.Client, encrypt bool) (*FileCredentialStore, error) {
	store := &FileCredentialStore{
		path:       path,
		oauth:      oauthConfig,
		httpClient: httpClient,
	}

	if encrypt {
		encryptor, err := security.NewTokenEncryptor(filepath.Dir(path))
		if err != nil {
			return nil, NewCredentialError("store", "failed to initialize token encryption").WithCause(err)
		}
		store.encryptor = encryptor
	}

	return store, nil
}

func (s *FileCredentialStore) Path() string {
	return s.path
}

func (s *FileCredentialStore) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoCredentials
	}
	if err != nil {
		return nil, NewCredentialError("load", "failed to read token file").WithCause(err)
	}

	if s.encryptor != nil {
		data, err = s.encryptor.Decrypt(string(data))
		if err != nil {
			return nil, NewCredentialError("load", "failed to decrypt token file").WithCause(err)
		}
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, NewCredentialError("load", "invalid token data").WithCause(err)
	}
	return &token, nil
}

func (s *FileCredentialStore) Save(token *oauth2.Token) error {
	if token == nil {
		return NewCredentialError("save", "token is nil")
	}

	data, err := json.Marshal(token)
	if err != nil {
		return NewCredentialError("save", "failed to marshal token").WithCause(err)
	}

	if s.encryptor != nil {
		sealed, err := s.encryptor.Encrypt(data)
		if err != nil {
			return NewCredentialError("save", "failed to encrypt token").WithCause(err)
		}
		data = []byte(sealed)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return NewCredentialError("save", "failed to create token directory").WithCause(err)
		}
	}

	// write-then-rename so a crash never leaves a truncated token behind
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return NewCredentialError("save", "failed to write token file").WithCause(err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return NewCredentialError("save", "failed to replace token file").WithCause(err)
	}
	return nil
}

func (s *FileCredentialStore) Refresh(ctx context.Context, token *oauth2.Token) (*oauth2.Token, error) {
	if token == nil || token.RefreshToken == "" {
		return nil, NewCredentialError("refresh", "no refresh token available")
	}
	if s.oauth == nil {
		return nil, NewCredentialError("refresh", "no OAuth client configured")
	}

	if s.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	}

	// Force the refresher to hit the token endpoint.
	stale := &oauth2.Token{
		RefreshToken: token.RefreshToken,
		Expiry:       time.Unix(1, 0),
	}
	fresh, err := s.oauth.TokenSource(ctx, stale).Token()
	if err != nil {
		return nil, NewCredentialError("refresh", "token endpoint rejected the refresh").WithCause(err)
	}
	return fresh, nil
}

func (s *FileCredentialStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return NewCredentialError("clear", fmt.Sprintf("failed to remove %s", s.path)).WithCause(err)
	}
	return nil
}
