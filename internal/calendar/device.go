package calendar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/mari8i/remind-me-the-hard-way/internal/logger"
)

// DeviceFlow is the OAuth 2.0 device authorization grant for machines
// without a local browser: the user enters a short code on another device.
type DeviceFlow struct {
	Out io.Writer
}

var _ InteractiveFlow = (*DeviceFlow)(nil)

// Authenticate requests a user code, prints the instructions and polls the
// token endpoint until the user approves, denies or the code expires.
func (f *DeviceFlow) Authenticate(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	if config == nil {
		return nil, NewCredentialError("device_login", "no OAuth client configured")
	}

	flowConfig := *config
	if flowConfig.Endpoint.DeviceAuthURL == "" {
		flowConfig.Endpoint.DeviceAuthURL = google.Endpoint.DeviceAuthURL
	}

	logger.Info("Requesting device code")
	device, err := flowConfig.DeviceAuth(ctx)
	if err != nil {
		return nil, NewCredentialError("device_login", "device code request failed").WithCause(err)
	}

	f.printInstructions(device)

	token, err := flowConfig.DeviceAccessToken(ctx, device)
	if err != nil {
		return nil, deviceTokenError(err)
	}

	logger.Info("Device authorization complete", "has_refresh_token", token.RefreshToken != "")
	return token, nil
}

func (f *DeviceFlow) printInstructions(device *oauth2.DeviceAuthResponse) {
	out := f.Out
	if out == nil {
		out = os.Stderr
	}

	fmt.Fprintf(out, "\nVisit %s and enter the code: %s\n", device.VerificationURI, device.UserCode)
	if !device.Expiry.IsZero() {
		fmt.Fprintf(out, "The code expires in %s\n", time.Until(device.Expiry).Round(time.Minute))
	}
	fmt.Fprintln(out, "Waiting for authorization...")
}

func deviceTokenError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		switch retrieveErr.ErrorCode {
		case "access_denied":
			return NewCredentialError("device_login", "user denied access").WithCause(err)
		case "expired_token":
			return NewCredentialError("device_login", "device code expired").WithCause(err)
		}
	}
	return NewCredentialError("device_login", "device authorization failed").WithCause(err)
}
