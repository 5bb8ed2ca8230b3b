package browser

import (
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	name string
	args []string
	err  error
}

func (r *recorder) start(name string, args ...string) error {
	r.name = name
	r.args = args
	return r.err
}

func found(file string) (string, error) { return file, nil }

func TestOpenUsesConfiguredBinary(t *testing.T) {
	rec := &recorder{}
	l := New("chrome", "/usr/bin/google-chrome-stable").WithStarter(rec.start, found)

	require.NoError(t, l.Open("https://meet.example/abc"))
	assert.Equal(t, "/usr/bin/google-chrome-stable", rec.name)
	assert.Equal(t, []string{"https://meet.example/abc"}, rec.args)
}

func TestOpenWithoutPathUsesDefaultOpener(t *testing.T) {
	rec := &recorder{}
	l := New("default", "").WithStarter(rec.start, found)

	require.NoError(t, l.Open("https://meet.example/abc"))
	assert.NotEmpty(t, rec.name)
	assert.Contains(t, rec.args, "https://meet.example/abc")
}

func TestOpenMissingBinary(t *testing.T) {
	rec := &recorder{}
	missing := func(string) (string, error) { return "", exec.ErrNotFound }
	l := New("chrome", "/nope/chrome").WithStarter(rec.start, missing)

	err := l.Open("https://meet.example/abc")
	require.Error(t, err)

	var launchErr *LaunchError
	require.True(t, errors.As(err, &launchErr))
	assert.Equal(t, "chrome", launchErr.Browser)
	assert.ErrorIs(t, err, exec.ErrNotFound)
	assert.Empty(t, rec.name, "nothing should be started")
}

func TestOpenStartFailure(t *testing.T) {
	rec := &recorder{err: errors.New("permission denied")}
	l := New("chrome", "/usr/bin/chrome").WithStarter(rec.start, found)

	err := l.Open("https://meet.example/abc")
	var launchErr *LaunchError
	require.ErrorAs(t, err, &launchErr)
	assert.Equal(t, "failed to start", launchErr.Message)
}

func TestOpenRejectsNonWebURLs(t *testing.T) {
	rec := &recorder{}
	l := New("chrome", "/usr/bin/chrome").WithStarter(rec.start, found)

	for _, u := range []string{"tel:+1-555-0100", "file:///etc/passwd", "https://", "::not a url"} {
		t.Run(u, func(t *testing.T) {
			err := l.Open(u)
			var launchErr *LaunchError
			assert.ErrorAs(t, err, &launchErr)
		})
	}
	assert.Empty(t, rec.name)
}
