package calendar

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// deviceServer serves the device code endpoint and answers every token poll
// with the given status and body.
func deviceServer(t *testing.T, tokenStatus int, tokenBody string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/device/code", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client", r.PostForm.Get("client_id"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"device_code": "dc-1", "user_code": "ABCD-EFGH", "verification_url": "https://www.google.com/device", "expires_in": 1800, "interval": 1}`)
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "dc-1", r.PostForm.Get("device_code"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(tokenStatus)
		fmt.Fprint(w, tokenBody)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func deviceConfig(srv *httptest.Server) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		Endpoint: oauth2.Endpoint{
			DeviceAuthURL: srv.URL + "/device/code",
			TokenURL:      srv.URL + "/token",
			AuthStyle:     oauth2.AuthStyleInParams,
		},
		Scopes: CalendarScopes,
	}
}

func TestDeviceFlowReturnsToken(t *testing.T) {
	srv := deviceServer(t, http.StatusOK, `{"access_token": "ya29.device", "refresh_token": "1//device", "token_type": "Bearer", "expires_in": 3599}`)

	var out bytes.Buffer
	flow := &DeviceFlow{Out: &out}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tok, err := flow.Authenticate(ctx, deviceConfig(srv))
	require.NoError(t, err)
	assert.Equal(t, "ya29.device", tok.AccessToken)
	assert.Equal(t, "1//device", tok.RefreshToken)
	assert.Contains(t, out.String(), "https://www.google.com/device")
	assert.Contains(t, out.String(), "ABCD-EFGH")
}

func TestDeviceFlowUserDenied(t *testing.T) {
	srv := deviceServer(t, http.StatusBadRequest, `{"error": "access_denied", "error_description": "Forbidden"}`)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := (&DeviceFlow{Out: &bytes.Buffer{}}).Authenticate(ctx, deviceConfig(srv))

	var credErr *CredentialError
	require.ErrorAs(t, err, &credErr)
	assert.Equal(t, "user denied access", credErr.Message)
}

func TestDeviceFlowWithoutConfig(t *testing.T) {
	_, err := (&DeviceFlow{}).Authenticate(context.Background(), nil)

	var credErr *CredentialError
	assert.ErrorAs(t, err, &credErr)
}
