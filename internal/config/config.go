// Package config loads the octane CLI configuration file and resolves the
// connection settings and credentials a command runs with.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// EnvConfigPath overrides the default config file location.
const EnvConfigPath = "OCTANE_CONFIG"

// DefaultPath returns $OCTANE_CONFIG, or config.yaml under the user config
// directory ($XDG_CONFIG_HOME/octane or ~/.config/octane).
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".octane", "config.yaml")
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "octane", "config.yaml")
}

// Store is a config.yaml file read through viper. It implements
// tracker.ConfigStore.
type Store struct {
	path string
	v    *viper.Viper
}

// Load reads the config file at path, or DefaultPath when path is empty.
// A missing file yields an empty Store that SetConfig will create.
func Load(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath()
	}
	s := &Store{path: path, v: viper.New()}
	s.v.SetConfigFile(path)
	s.v.SetConfigType("yaml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return s, nil
	}
	if err := s.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return s, nil
}

// Path returns the file the store reads and writes.
func (s *Store) Path() string {
	return s.path
}

// GetConfig returns the value at a dotted key, or "" when unset.
func (s *Store) GetConfig(ctx context.Context, key string) (string, error) {
	if !s.v.IsSet(key) {
		return "", nil
	}
	return strings.TrimSpace(s.v.GetString(key)), nil
}

// SetConfig writes key to the file, keeping the rest of the document and
// its comments, then reloads it.
func (s *Store) SetConfig(ctx context.Context, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("config key must not be empty")
	}
	if err := SetYAMLKey(s.path, key, value); err != nil {
		return err
	}
	if err := s.v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to reload config %s: %w", s.path, err)
	}
	return nil
}

// GetAllConfig returns every leaf key with its string value.
func (s *Store) GetAllConfig(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string)
	for _, k := range s.v.AllKeys() {
		out[k] = s.v.GetString(k)
	}
	return out, nil
}

// Keys returns the configured leaf keys in sorted order.
func (s *Store) Keys() []string {
	keys := s.v.AllKeys()
	sort.Strings(keys)
	return keys
}
