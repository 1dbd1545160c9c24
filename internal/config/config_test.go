package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	octaneapi "github.com/octanebridge/octane/internal/octane"
)

const sample = `# Octane connection
octane:
  url: https://octane.example.com
  shared_space_id: "1001"
  workspace_id: 1002
  username: sa@nga
  proxy:
    https:
      host: proxy.local
      port: 3128
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, filepath.Join("/xdg", "octane", "config.yaml"), DefaultPath())

	t.Setenv(EnvConfigPath, "/etc/octane.yaml")
	assert.Equal(t, "/etc/octane.yaml", DefaultPath())
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none.yaml")
	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Path())
	assert.Empty(t, s.Keys())

	v, err := s.GetConfig(context.Background(), "octane.url")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestLoadInvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "octane: [unclosed"))
	assert.Error(t, err)
}

func TestStoreGet(t *testing.T) {
	s, err := Load(writeConfig(t, sample))
	require.NoError(t, err)
	ctx := context.Background()

	v, err := s.GetConfig(ctx, "octane.workspace_id")
	require.NoError(t, err)
	assert.Equal(t, "1002", v)

	all, err := s.GetAllConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "3128", all["octane.proxy.https.port"])
	assert.Contains(t, s.Keys(), "octane.proxy.https.host")
}

func TestStoreSetPreservesComments(t *testing.T) {
	path := writeConfig(t, sample)
	s, err := Load(path)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.SetConfig(ctx, "octane.workspace_id", "2002"))
	require.NoError(t, s.SetConfig(ctx, "octane.proxy.http.host", "plain.local"))

	v, _ := s.GetConfig(ctx, "octane.workspace_id")
	assert.Equal(t, "2002", v)
	v, _ = s.GetConfig(ctx, "octane.proxy.http.host")
	assert.Equal(t, "plain.local", v)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Octane connection")
	assert.Contains(t, string(data), `workspace_id: "2002"`)
}

func TestStoreSetCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	s, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, s.SetConfig(context.Background(), "octane.url", "https://o"))
	reloaded, err := Load(path)
	require.NoError(t, err)
	v, _ := reloaded.GetConfig(context.Background(), "octane.url")
	assert.Equal(t, "https://o", v)
}

func TestStoreSetThroughScalar(t *testing.T) {
	s, err := Load(writeConfig(t, "octane: plain\n"))
	require.NoError(t, err)
	assert.Error(t, s.SetConfig(context.Background(), "octane.url", "x"))
	assert.Error(t, s.SetConfig(context.Background(), " ", "x"))
}

func TestResolve(t *testing.T) {
	s, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	var prompted string
	settings, err := Resolve(context.Background(), s, func(user string) (string, error) {
		prompted = user
		return "typed", nil
	})
	require.NoError(t, err)

	assert.Equal(t, "sa@nga", prompted)
	assert.Equal(t, "sa@nga", settings.Credentials.Username)
	assert.Equal(t, "typed", settings.Credentials.Password)
	assert.Equal(t, "https://octane.example.com", settings.Tracker[octaneapi.KeyURL])
	assert.Equal(t, "1001", settings.Tracker[octaneapi.KeySharedSpaceID])
	assert.Equal(t, "proxy.local", settings.Tracker[octaneapi.KeyHTTPSProxyHost])
	assert.Equal(t, "3128", settings.Tracker[octaneapi.KeyHTTPSProxyPort])
}

func TestResolveEnvFallback(t *testing.T) {
	s, err := Load(writeConfig(t, sample))
	require.NoError(t, err)
	t.Setenv("OCTANE_PASSWORD", "from-env")

	settings, err := Resolve(context.Background(), s, func(string) (string, error) {
		t.Fatal("prompt should not run")
		return "", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "from-env", settings.Credentials.Password)
}

func TestResolveErrors(t *testing.T) {
	s, err := Load(writeConfig(t, "octane:\n  url: https://o\n"))
	require.NoError(t, err)
	_, err = Resolve(context.Background(), s, nil)
	assert.ErrorContains(t, err, "octane.shared_space_id not configured")

	s, err = Load(writeConfig(t, sample))
	require.NoError(t, err)
	boom := errors.New("aborted")
	_, err = Resolve(context.Background(), s, func(string) (string, error) { return "", boom })
	assert.ErrorIs(t, err, boom)
}

func TestTerminalPromptRequiresTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stdin")
	require.NoError(t, err)
	defer f.Close()

	_, err = TerminalPrompt(f, os.Stderr)("sa@nga")
	assert.ErrorContains(t, err, "not a terminal")
}
