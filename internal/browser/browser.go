package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"

	"github.com/mari8i/remind-me-the-hard-way/internal/logger"
)

// LaunchError reports a browser that could not be started.
type LaunchError struct {
	Browser string
	URL     string
	Message string
	Err     error
}

func (e *LaunchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("browser %s cannot open %s: %s: %v", e.Browser, e.URL, e.Message, e.Err)
	}
	return fmt.Sprintf("browser %s cannot open %s: %s", e.Browser, e.URL, e.Message)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// Starter starts name with args without waiting for it to exit.
type Starter func(name string, args ...string) error

// LookPath resolves an executable name to a path.
type LookPath func(file string) (string, error)

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	// reap the child in the background; the browser outlives this call
	go func() { _ = cmd.Wait() }()
	return nil
}

// Launcher opens URLs with one registered browser binary.
type Launcher struct {
	Name     string
	Path     string
	start    Starter
	lookPath LookPath
}

// New registers the browser at path under name. An empty path falls back to
// the platform's default URL opener.
func New(name, path string) *Launcher {
	return &Launcher{
		Name:     name,
		Path:     path,
		start:    startDetached,
		lookPath: exec.LookPath,
	}
}

// WithStarter swaps the process starter; tests use it to record launches.
func (l *Launcher) WithStarter(start Starter, lookPath LookPath) *Launcher {
	l.start = start
	l.lookPath = lookPath
	return l
}

// Open starts the browser on rawURL and returns once the process is running.
func (l *Launcher) Open(rawURL string) error {
	if err := validateURL(rawURL); err != nil {
		return &LaunchError{Browser: l.Name, URL: rawURL, Message: "refusing to open", Err: err}
	}

	name, args := l.command(rawURL)
	resolved, err := l.lookPath(name)
	if err != nil {
		return &LaunchError{Browser: l.Name, URL: rawURL, Message: "executable not found", Err: err}
	}

	logger.Debug("starting browser", "browser", l.Name, "path", resolved)
	if err := l.start(resolved, args...); err != nil {
		return &LaunchError{Browser: l.Name, URL: rawURL, Message: "failed to start", Err: err}
	}
	return nil
}

func (l *Launcher) command(rawURL string) (string, []string) {
	if l.Path != "" {
		return l.Path, []string{rawURL}
	}
	return defaultOpener(rawURL)
}

func defaultOpener(rawURL string) (string, []string) {
	switch runtime.GOOS {
	case "darwin":
		return "open", []string{rawURL}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", rawURL}
	default:
		return "xdg-open", []string{rawURL}
	}
}

// OpenDefault opens rawURL with the system's default handler.
func OpenDefault(rawURL string) error {
	return New("default", "").Open(rawURL)
}

func validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}
