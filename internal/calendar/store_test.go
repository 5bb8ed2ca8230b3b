package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func testToken() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  "ya29.access",
		RefreshToken: "1//refresh",
		TokenType:    "Bearer",
		Expiry:       time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC),
	}
}

func TestFileCredentialStoreMissingFile(t *testing.T) {
	store, err := NewFileCredentialStore(filepath.Join(t.TempDir(), "token.json"), nil, nil, false)
	require.NoError(t, err)

	_, err = store.Load()
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestFileCredentialStorePlainRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "token.json")
	store, err := NewFileCredentialStore(path, nil, nil, false)
	require.NoError(t, err)

	require.NoError(t, store.Save(testToken()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"access_token":"ya29.access"`)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "ya29.access", loaded.AccessToken)
	assert.Equal(t, "1//refresh", loaded.RefreshToken)
	assert.True(t, loaded.Expiry.Equal(testToken().Expiry))
}

func TestFileCredentialStoreEncrypted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	store, err := NewFileCredentialStore(path, nil, nil, true)
	require.NoError(t, err)

	require.NoError(t, store.Save(testToken()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "ya29.access")

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "ya29.access", loaded.AccessToken)
}

func TestFileCredentialStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0600))

	store, err := NewFileCredentialStore(path, nil, nil, false)
	require.NoError(t, err)

	_, err = store.Load()
	var credErr *CredentialError
	require.True(t, errors.As(err, &credErr))
	assert.Equal(t, "load", credErr.Operation)
	assert.False(t, errors.Is(err, ErrNoCredentials))
}

func TestFileCredentialStoreClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	store, err := NewFileCredentialStore(path, nil, nil, false)
	require.NoError(t, err)

	require.NoError(t, store.Save(testToken()))
	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear(), "clearing twice is fine")

	_, err = store.Load()
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestFileCredentialStoreRefresh(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "1//refresh", r.PostForm.Get("refresh_token"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token": "ya29.fresh", "token_type": "Bearer", "expires_in": 3600}`)
	}))
	defer srv.Close()

	oauthConfig := &oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		Endpoint:     oauth2.Endpoint{TokenURL: srv.URL, AuthStyle: oauth2.AuthStyleInParams},
	}
	store, err := NewFileCredentialStore(filepath.Join(t.TempDir(), "token.json"), oauthConfig, srv.Client(), false)
	require.NoError(t, err)

	expired := testToken()
	expired.Expiry = time.Now().Add(-time.Hour)

	fresh, err := store.Refresh(context.Background(), expired)
	require.NoError(t, err)
	assert.Equal(t, "ya29.fresh", fresh.AccessToken)
	assert.Equal(t, "1//refresh", fresh.RefreshToken, "refresh token is carried over")
	assert.True(t, fresh.Valid())
}

func TestFileCredentialStoreRefreshRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error": "invalid_grant", "error_description": "Token has been expired or revoked."}`)
	}))
	defer srv.Close()

	oauthConfig := &oauth2.Config{ClientID: "client", Endpoint: oauth2.Endpoint{TokenURL: srv.URL}}
	store, err := NewFileCredentialStore(filepath.Join(t.TempDir(), "token.json"), oauthConfig, srv.Client(), false)
	require.NoError(t, err)

	_, err = store.Refresh(context.Background(), testToken())
	var credErr *CredentialError
	require.ErrorAs(t, err, &credErr)
	assert.Equal(t, "refresh", credErr.Operation)
	assert.True(t, strings.Contains(err.Error(), "invalid_grant"))
}

func TestFileCredentialStoreRefreshWithoutRefreshToken(t *testing.T) {
	store, err := NewFileCredentialStore(filepath.Join(t.TempDir(), "token.json"), &oauth2.Config{}, nil, false)
	require.NoError(t, err)

	_, err = store.Refresh(context.Background(), &oauth2.Token{AccessToken: "x"})
	var credErr *CredentialError
	assert.ErrorAs(t, err, &credErr)
}
