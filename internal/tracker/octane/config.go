package octane

import (
	octaneapi "github.com/octanebridge/octane/internal/octane"
	"github.com/octanebridge/octane/internal/tracker"
)

// HostConfig reads the "octane" config section and returns the map Configure
// expects. Proxy settings live under octane.proxy.http and
// octane.proxy.https.
func HostConfig(cfg *tracker.Config) (map[string]string, error) {
	out := make(map[string]string)
	required := []struct{ key, hostKey string }{
		{tracker.CommonConfig.URL, octaneapi.KeyURL},
		{"shared_space_id", octaneapi.KeySharedSpaceID},
		{"workspace_id", octaneapi.KeyWorkspaceID},
	}
	for _, r := range required {
		v, err := cfg.GetRequired(r.key)
		if err != nil {
			return nil, err
		}
		out[r.hostKey] = v
	}

	for _, scheme := range []string{"http", "https"} {
		sub := cfg.Sub("proxy." + scheme)
		for _, k := range []string{"host", "port", "username", "password"} {
			v, err := sub.Get(k)
			if err != nil {
				return nil, err
			}
			if v != "" {
				out[scheme+"Proxy"+titleCase(k)] = v
			}
		}
	}
	return out, nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
