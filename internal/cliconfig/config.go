package cliconfig

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bft-labs/mqship/internal/domain"
)

// Config holds the CLI configuration. Values are layered: defaults, then the
// config file, then MQSHIP_* environment variables, then flags.
type Config struct {
	Destination string

	// Groups is the ordered failover list of broker clusters.
	Groups []GroupConfig

	// ConnectHeaders apply to every group's handshake; a group's own
	// connect headers are merged on top.
	ConnectHeaders map[string]string

	// DefaultHeaders are merged under every frame's caller headers.
	DefaultHeaders map[string]string

	ConnectTimeout time.Duration
	WriteTimeout   time.Duration

	BackoffBase time.Duration
	BackoffMax  time.Duration
	MaxAttempts int
	Breaker     bool

	// Transactional wraps the whole CLI run in a single transaction, so
	// either every message is delivered after the final line or none is.
	Transactional bool

	LogLevel string
	Watch    bool
}

// GroupConfig is one endpoint group as configured.
type GroupConfig struct {
	Name           string
	Hosts          []string
	ConnectHeaders map[string]string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		ConnectTimeout: 10 * time.Second,
		WriteTimeout:   30 * time.Second,
		BackoffBase:    500 * time.Millisecond,
		BackoffMax:     10 * time.Second,
		LogLevel:       "info",
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Destination == "" {
		return fmt.Errorf("destination is required")
	}
	if len(c.Groups) == 0 {
		return fmt.Errorf("at least one endpoint group is required")
	}
	for i, g := range c.Groups {
		if len(g.Hosts) == 0 {
			return fmt.Errorf("group %d (%s) has no hosts", i, g.Name)
		}
		for _, h := range g.Hosts {
			if _, _, err := splitHostPort(h); err != nil {
				return fmt.Errorf("group %d (%s): %w", i, g.Name, err)
			}
		}
	}
	if c.ConnectTimeout <= 0 {
		return fmt.Errorf("connect timeout must be positive")
	}
	if c.BackoffBase <= 0 || c.BackoffMax < c.BackoffBase {
		return fmt.Errorf("backoff base must be positive and not exceed backoff max")
	}
	return nil
}

// EndpointGroups converts the configured groups into domain endpoint groups.
func (c *Config) EndpointGroups() ([]domain.EndpointGroup, error) {
	out := make([]domain.EndpointGroup, 0, len(c.Groups))
	for i, g := range c.Groups {
		name := g.Name
		if name == "" {
			name = fmt.Sprintf("group-%d", i)
		}
		eps := make([]domain.Endpoint, 0, len(g.Hosts))
		for _, h := range g.Hosts {
			host, port, err := splitHostPort(h)
			if err != nil {
				return nil, fmt.Errorf("group %s: %w", name, err)
			}
			eps = append(eps, domain.Endpoint{Host: host, Port: port})
		}
		out = append(out, domain.EndpointGroup{
			Name:           name,
			Endpoints:      eps,
			ConnectHeaders: headersFromMap(g.ConnectHeaders),
		})
	}
	return out, nil
}

// headersFromMap converts a configured header map into ordered headers. Map
// order is unspecified, so names are sorted to keep wire order deterministic.
func headersFromMap(m map[string]string) domain.Headers {
	if len(m) == 0 {
		return nil
	}
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	h := make(domain.Headers, 0, len(m))
	for _, n := range names {
		h = h.Set(n, m[n])
	}
	return h
}

// ProducerConnectHeaders returns the producer-wide connect headers.
func (c *Config) ProducerConnectHeaders() domain.Headers {
	return headersFromMap(c.ConnectHeaders)
}

// ProducerDefaultHeaders returns the frame default headers.
func (c *Config) ProducerDefaultHeaders() domain.Headers {
	return headersFromMap(c.DefaultHeaders)
}

func splitHostPort(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid host %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return "", 0, fmt.Errorf("invalid port in %q", addr)
	}
	return host, port, nil
}

// DefaultConfigPath returns the default configuration file path,
// ~/.mqship/config.toml, or "" if the home directory is not accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".mqship", "config.toml")
	}
	return ""
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

// configSetter applies configuration values while respecting flag
// precedence: a value is skipped when its flag was set explicitly.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}

func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// ParseHostList splits a comma-separated host list into a single group.
// Used for the --hosts flag and MQSHIP_HOSTS, which configure the simple
// one-cluster case without a config file.
func ParseHostList(name, list string) GroupConfig {
	parts := strings.Split(list, ",")
	hosts := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			hosts = append(hosts, p)
		}
	}
	return GroupConfig{Name: name, Hosts: hosts}
}
