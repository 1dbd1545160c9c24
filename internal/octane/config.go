package octane

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Host configuration keys.
const (
	KeyURL           = "URL"
	KeySharedSpaceID = "SHARED_SPACE_ID"
	KeyWorkspaceID   = "WORKSPACE_ID"

	KeyHTTPProxyHost      = "httpProxyHost"
	KeyHTTPProxyPort      = "httpProxyPort"
	KeyHTTPProxyUsername  = "httpProxyUsername"
	KeyHTTPProxyPassword  = "httpProxyPassword"
	KeyHTTPSProxyHost     = "httpsProxyHost"
	KeyHTTPSProxyPort     = "httpsProxyPort"
	KeyHTTPSProxyUsername = "httpsProxyUsername"
	KeyHTTPSProxyPassword = "httpsProxyPassword"
)

// ConnectionConfig identifies one Octane workspace. It is immutable once built.
type ConnectionConfig struct {
	baseURL       string
	sharedSpaceID string
	workspaceID   string
}

// NewConnectionConfig validates and normalizes the connection settings.
// A trailing slash on baseURL is dropped.
func NewConnectionConfig(baseURL, sharedSpaceID, workspaceID string) (*ConnectionConfig, error) {
	baseURL = strings.TrimSpace(baseURL)
	sharedSpaceID = strings.TrimSpace(sharedSpaceID)
	workspaceID = strings.TrimSpace(workspaceID)

	if baseURL == "" {
		return nil, configError("Octane URL must be specified")
	}
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, configError("Octane URL %q is not a valid http(s) URL", baseURL)
	}
	if sharedSpaceID == "" {
		return nil, configError("Octane shared space id must be specified")
	}
	if workspaceID == "" {
		return nil, configError("Octane workspace id must be specified")
	}
	return &ConnectionConfig{
		baseURL:       strings.TrimRight(baseURL, "/"),
		sharedSpaceID: sharedSpaceID,
		workspaceID:   workspaceID,
	}, nil
}

// ConnectionConfigFrom reads the URL, SHARED_SPACE_ID and WORKSPACE_ID keys.
func ConnectionConfigFrom(cfg map[string]string) (*ConnectionConfig, error) {
	return NewConnectionConfig(cfg[KeyURL], cfg[KeySharedSpaceID], cfg[KeyWorkspaceID])
}

func (c *ConnectionConfig) BaseURL() string       { return c.baseURL }
func (c *ConnectionConfig) SharedSpaceID() string { return c.sharedSpaceID }
func (c *ConnectionConfig) WorkspaceID() string   { return c.workspaceID }

// APIRoot is the workspace scoped REST root every request path is joined to.
func (c *ConnectionConfig) APIRoot() string {
	return fmt.Sprintf("%s/api/shared_spaces/%s/workspaces/%s",
		c.baseURL, url.PathEscape(c.sharedSpaceID), url.PathEscape(c.workspaceID))
}

// DeepLink returns the browser URL for a work item.
func (c *ConnectionConfig) DeepLink(workItemID string) string {
	return fmt.Sprintf("%s/ui/entity-navigation?p=%s/%s&entityType=work_item&id=%s",
		c.baseURL, c.sharedSpaceID, c.workspaceID, workItemID)
}

// Credentials authenticate a single Transport.
type Credentials struct {
	Username string
	Password string
}

// ProxyConfig describes an optional forward proxy.
type ProxyConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// Addr returns host:port.
func (p *ProxyConfig) Addr() string {
	return p.Host + ":" + strconv.Itoa(p.Port)
}

// URL renders the proxy as an http URL carrying its credentials, if any.
func (p *ProxyConfig) URL() *url.URL {
	u := &url.URL{Scheme: "http", Host: p.Addr()}
	if p.Username != "" {
		u.User = url.UserPassword(p.Username, p.Password)
	}
	return u
}

// ProxyConfigFor picks the http or https proxy keys matching baseURL's scheme.
// It returns nil when no proxy host is configured.
func ProxyConfigFor(cfg map[string]string, baseURL string) (*ProxyConfig, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, configError("Octane URL %q is not valid: %v", baseURL, err)
	}

	var hostKey, portKey, userKey, passKey string
	switch u.Scheme {
	case "http":
		hostKey, portKey, userKey, passKey = KeyHTTPProxyHost, KeyHTTPProxyPort, KeyHTTPProxyUsername, KeyHTTPProxyPassword
	case "https":
		hostKey, portKey, userKey, passKey = KeyHTTPSProxyHost, KeyHTTPSProxyPort, KeyHTTPSProxyUsername, KeyHTTPSProxyPassword
	default:
		return nil, configError("unsupported URL scheme %q", u.Scheme)
	}

	host := strings.TrimSpace(cfg[hostKey])
	portStr := strings.TrimSpace(cfg[portKey])
	if host == "" || portStr == "" {
		return nil, nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return nil, configError("proxy port %q is not a valid port number", portStr)
	}
	return &ProxyConfig{
		Host:     host,
		Port:     port,
		Username: strings.TrimSpace(cfg[userKey]),
		Password: cfg[passKey],
	}, nil
}
