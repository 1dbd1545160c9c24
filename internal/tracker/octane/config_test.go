package octane

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	octaneapi "github.com/octanebridge/octane/internal/octane"
	"github.com/octanebridge/octane/internal/tracker"
)

type mapStore map[string]string

func (m mapStore) GetConfig(ctx context.Context, key string) (string, error) { return m[key], nil }
func (m mapStore) SetConfig(ctx context.Context, key, value string) error   { m[key] = value; return nil }
func (m mapStore) GetAllConfig(ctx context.Context) (map[string]string, error) {
	return m, nil
}

func TestHostConfig(t *testing.T) {
	store := mapStore{
		"octane.url":                  "https://octane.example.com",
		"octane.shared_space_id":      "1001",
		"octane.workspace_id":         "1002",
		"octane.proxy.https.host":     "proxy.local",
		"octane.proxy.https.port":     "3128",
		"octane.proxy.https.username": "puser",
	}
	cfg := tracker.NewConfig(context.Background(), "octane", store)

	host, err := HostConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		octaneapi.KeyURL:                "https://octane.example.com",
		octaneapi.KeySharedSpaceID:      "1001",
		octaneapi.KeyWorkspaceID:        "1002",
		octaneapi.KeyHTTPSProxyHost:     "proxy.local",
		octaneapi.KeyHTTPSProxyPort:     "3128",
		octaneapi.KeyHTTPSProxyUsername: "puser",
	}, host)

	tr := New()
	require.NoError(t, tr.Configure(host))
	require.NotNil(t, tr.proxy)
	assert.Equal(t, "proxy.local:3128", tr.proxy.Addr())
}

func TestHostConfigMissing(t *testing.T) {
	cfg := tracker.NewConfig(context.Background(), "octane", mapStore{"octane.url": "https://o"})
	_, err := HostConfig(cfg)
	assert.Error(t, err)
}
