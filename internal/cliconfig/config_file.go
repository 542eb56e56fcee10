package cliconfig

import (
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML
// friendly.
type FileConfig struct {
	Destination    string            `toml:"destination"`
	ConnectHeaders map[string]string `toml:"connect_headers"`
	DefaultHeaders map[string]string `toml:"default_headers"`
	ConnectTimeout string            `toml:"connect_timeout"`
	WriteTimeout   string            `toml:"write_timeout"`
	BackoffBase    string            `toml:"backoff_base"`
	BackoffMax     string            `toml:"backoff_max"`
	MaxAttempts    int               `toml:"max_attempts"`
	Breaker        *bool             `toml:"breaker"`
	Transactional  *bool             `toml:"transactional"`
	LogLevel       string            `toml:"log_level"`
	Watch          *bool             `toml:"watch"`
	Groups         []FileGroup       `toml:"groups"`
}

// FileGroup is one endpoint group in the config file.
type FileGroup struct {
	Name           string            `toml:"name"`
	Hosts          []string          `toml:"hosts"`
	ConnectHeaders map[string]string `toml:"connect_headers"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("destination", fc.Destination, &cfg.Destination)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	if err := s.setDuration("connect-timeout", fc.ConnectTimeout, &cfg.ConnectTimeout); err != nil {
		return err
	}
	if err := s.setDuration("write-timeout", fc.WriteTimeout, &cfg.WriteTimeout); err != nil {
		return err
	}
	if err := s.setDuration("backoff-base", fc.BackoffBase, &cfg.BackoffBase); err != nil {
		return err
	}
	if err := s.setDuration("backoff-max", fc.BackoffMax, &cfg.BackoffMax); err != nil {
		return err
	}

	s.setInt("max-attempts", fc.MaxAttempts, &cfg.MaxAttempts)
	s.setBool("breaker", fc.Breaker, &cfg.Breaker)
	s.setBool("transactional", fc.Transactional, &cfg.Transactional)
	s.setBool("watch", fc.Watch, &cfg.Watch)

	if len(fc.ConnectHeaders) > 0 && cfg.ConnectHeaders == nil {
		cfg.ConnectHeaders = fc.ConnectHeaders
	}
	if len(fc.DefaultHeaders) > 0 && cfg.DefaultHeaders == nil {
		cfg.DefaultHeaders = fc.DefaultHeaders
	}

	// Groups from the file are used only when --hosts was not given.
	if len(fc.Groups) > 0 && !changed["hosts"] && len(cfg.Groups) == 0 {
		for _, g := range fc.Groups {
			cfg.Groups = append(cfg.Groups, GroupConfig{
				Name:           g.Name,
				Hosts:          g.Hosts,
				ConnectHeaders: g.ConnectHeaders,
			})
		}
	}

	return nil
}
