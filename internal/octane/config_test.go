package octane

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConnectionConfig(t *testing.T) {
	c, err := NewConnectionConfig("https://octane.example.com/", "1001", "1002")
	require.NoError(t, err)
	assert.Equal(t, "https://octane.example.com", c.BaseURL())
	assert.Equal(t, "https://octane.example.com/api/shared_spaces/1001/workspaces/1002", c.APIRoot())
	assert.Equal(t,
		"https://octane.example.com/ui/entity-navigation?p=1001/1002&entityType=work_item&id=77",
		c.DeepLink("77"))
}

func TestNewConnectionConfigErrors(t *testing.T) {
	tests := []struct {
		name                string
		url, shared, workID string
	}{
		{"blank url", "  ", "1", "2"},
		{"relative url", "octane.example.com", "1", "2"},
		{"ftp scheme", "ftp://octane.example.com", "1", "2"},
		{"blank shared space", "https://octane.example.com", "", "2"},
		{"blank workspace", "https://octane.example.com", "1", " "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConnectionConfig(tt.url, tt.shared, tt.workID)
			require.Error(t, err)
			assert.True(t, IsKind(err, KindConfiguration), "kind = %v", KindOf(err))
		})
	}
}

func TestConnectionConfigFrom(t *testing.T) {
	c, err := ConnectionConfigFrom(map[string]string{
		KeyURL:           "http://localhost:8080",
		KeySharedSpaceID: "3",
		KeyWorkspaceID:   "4",
	})
	require.NoError(t, err)
	assert.Equal(t, "3", c.SharedSpaceID())
	assert.Equal(t, "4", c.WorkspaceID())
}

func TestProxyConfigFor(t *testing.T) {
	cfg := map[string]string{
		KeyHTTPProxyHost:      "http-proxy",
		KeyHTTPProxyPort:      "3128",
		KeyHTTPSProxyHost:     "https-proxy",
		KeyHTTPSProxyPort:     "8443",
		KeyHTTPSProxyUsername: "puser",
		KeyHTTPSProxyPassword: "ppass",
	}

	p, err := ProxyConfigFor(cfg, "http://octane")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "http-proxy:3128", p.Addr())
	assert.Nil(t, p.URL().User)

	p, err = ProxyConfigFor(cfg, "https://octane")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "https-proxy:8443", p.Addr())
	pass, _ := p.URL().User.Password()
	assert.Equal(t, "puser", p.URL().User.Username())
	assert.Equal(t, "ppass", pass)
}

func TestProxyConfigForAbsent(t *testing.T) {
	p, err := ProxyConfigFor(map[string]string{KeyHTTPSProxyPort: "8443"}, "https://octane")
	require.NoError(t, err)
	assert.Nil(t, p, "port without host must not configure a proxy")

	p, err = ProxyConfigFor(map[string]string{KeyHTTPSProxyHost: "proxy"}, "https://octane")
	require.NoError(t, err)
	assert.Nil(t, p, "host without port must not configure a proxy")
}

func TestProxyConfigForBadPort(t *testing.T) {
	_, err := ProxyConfigFor(map[string]string{KeyHTTPProxyHost: "proxy", KeyHTTPProxyPort: "eighty"}, "http://octane")
	assert.True(t, IsKind(err, KindConfiguration))
}
