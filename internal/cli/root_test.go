package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/berrythewa/linkforward/internal/forwarder"
	"github.com/berrythewa/linkforward/internal/types"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags puts every flag in the command tree back to its default so
// runs don't leak into each other.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// run executes the root command with args and returns what it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LINKFORWARD_CONFIG", filepath.Join(t.TempDir(), "config.yaml"))
	for _, key := range []string{"LINKFORWARD_SERVICE_URL", "LINKFORWARD_IDE", "LINKFORWARD_TIMEOUT"} {
		t.Setenv(key, "")
	}
	t.Setenv("LINKFORWARD_LOG_LEVEL", "error")

	resetFlags(RootCmd)

	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetArgs(args)
	t.Cleanup(func() {
		RootCmd.SetOut(nil)
		RootCmd.SetErr(nil)
		RootCmd.SetArgs(nil)
	})

	err := RootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// recordingHelper answers /open with reply and records the decoded request.
func recordingHelper(t *testing.T, code int, reply string) (*httptest.Server, *types.OpenRequest) {
	t.Helper()
	got := &types.OpenRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/open" {
			json.NewDecoder(r.Body).Decode(got)
		}
		w.WriteHeader(code)
		io.WriteString(w, reply)
	}))
	t.Cleanup(server.Close)
	return server, got
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{nil, ExitOK},
		{errors.New("boom"), ExitFailure},
		{&forwarder.TransportError{Err: io.EOF}, ExitTransport},
		{&forwarder.ServiceError{StatusCode: 500}, ExitService},
		{&forwarder.DecodeError{Err: io.EOF}, ExitDecode},
		{&forwarder.ApplicationError{Message: "no"}, ExitApplication},
		{fmt.Errorf("wrapped: %w", &forwarder.ApplicationError{Message: "no"}), ExitApplication},
	}
	for _, test := range tests {
		assert.Equal(t, test.code, ExitCode(test.err), "%v", test.err)
	}
}

func TestOpenCommand(t *testing.T) {
	server, got := recordingHelper(t, http.StatusOK, `{"status":"ok","message":"Opened successfully","path":"/repos/foo-bar"}`)

	out, err := run(t, "open", "https://github.com/foo/bar", "--service-url", server.URL)
	require.NoError(t, err)

	assert.Contains(t, out, "Opened successfully")
	assert.Contains(t, out, "Path: /repos/foo-bar")
	assert.Equal(t, "https://github.com/foo/bar", got.URL)
	assert.Equal(t, forwarder.DefaultIDE, got.IDE)
}

func TestBareURLForwards(t *testing.T) {
	server, got := recordingHelper(t, http.StatusOK, `{"status":"ok","message":"opened"}`)

	_, err := run(t, "--service-url", server.URL, "--ide", "code", "https://github.com/foo/bar/pull/3")
	require.NoError(t, err)

	assert.Equal(t, types.OpenRequest{URL: "https://github.com/foo/bar/pull/3", IDE: "code"}, *got)
}

func TestOpenJSONOutput(t *testing.T) {
	server, _ := recordingHelper(t, http.StatusOK, `{"status":"ok","message":"opened","path":"/r"}`)

	out, err := run(t, "open", "--json", "https://github.com/foo/bar", "--service-url", server.URL)
	require.NoError(t, err)

	var resp types.OpenResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, types.OpenResponse{Status: "ok", Message: "opened", Path: "/r"}, resp)
}

func TestOpenFailures(t *testing.T) {
	t.Run("application", func(t *testing.T) {
		server, _ := recordingHelper(t, http.StatusOK, `{"status":"error","message":"unsupported url"}`)
		_, err := run(t, "open", "https://example.com", "--service-url", server.URL)
		require.Error(t, err)
		assert.Equal(t, "unsupported url", err.Error())
		assert.Equal(t, ExitApplication, ExitCode(err))
	})

	t.Run("service", func(t *testing.T) {
		server, _ := recordingHelper(t, http.StatusInternalServerError, `{"status":"error","message":"failed to clone"}`)
		_, err := run(t, "open", "https://github.com/foo/bar", "--service-url", server.URL)
		assert.Equal(t, ExitService, ExitCode(err))
	})

	t.Run("decode", func(t *testing.T) {
		server, _ := recordingHelper(t, http.StatusOK, `garbage`)
		_, err := run(t, "open", "https://github.com/foo/bar", "--service-url", server.URL)
		assert.Equal(t, ExitDecode, ExitCode(err))
	})

	t.Run("transport", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		_, err := run(t, "open", "https://github.com/foo/bar", "--service-url", url)
		assert.Equal(t, ExitTransport, ExitCode(err))
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := run(t, "open", "https://github.com/foo/bar", "--service-url", "ftp://localhost")
		require.Error(t, err)
		assert.Equal(t, ExitFailure, ExitCode(err))
	})
}

func TestPRCommand(t *testing.T) {
	server, got := recordingHelper(t, http.StatusOK, `{"status":"ok","message":"opened"}`)

	_, err := run(t, "pr", "microsoft/vscode", "12345", "--service-url", server.URL)
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/microsoft/vscode/pull/12345", got.URL)

	_, err = run(t, "pr", "microsoft", "12345", "--service-url", server.URL)
	assert.Error(t, err)

	_, err = run(t, "pr", "microsoft/vscode", "abc", "--service-url", server.URL)
	assert.Error(t, err)
}

func TestHealthCommand(t *testing.T) {
	server, _ := recordingHelper(t, http.StatusOK, `{"status":"ok","version":"1.0.0","uptime":"1h"}`)

	out, err := run(t, "health", "--service-url", server.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Version: 1.0.0")

	out, err = run(t, "health", "--json", "--service-url", server.URL)
	require.NoError(t, err)
	var health types.HealthStatus
	require.NoError(t, json.Unmarshal([]byte(out), &health))
	assert.Equal(t, "1h", health.Uptime)
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lf", "config.yaml")

	out, err := run(t, "config", "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)
	assert.FileExists(t, path)

	_, err = run(t, "config", "init", "--config", path)
	assert.Error(t, err, "init must not overwrite without --force")

	_, err = run(t, "config", "init", "--force", "--config", path)
	assert.NoError(t, err)

	out, err = run(t, "config", "validate", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")

	out, err = run(t, "config", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "service_url: http://localhost:9527")
	assert.Contains(t, out, "timeout: 1m0s")

	out, err = run(t, "config", "show", "--format", "json", "--config", path, "--ide", "cursor")
	require.NoError(t, err)
	assert.Contains(t, out, `"ide": "cursor"`)

	out, err = run(t, "config", "path", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)

	require.NoError(t, os.WriteFile(path, []byte("service_url: http://localhost:1\nbogus: true\n"), 0644))
	_, err = run(t, "config", "validate", "--config", path)
	assert.Error(t, err, "unknown keys must fail validation")
}

func TestVersionCommand(t *testing.T) {
	SetVersionInfo("1.2.3", "today", "abc123")
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version:    1.2.3")
	assert.Contains(t, out, "Commit:     abc123")
}
