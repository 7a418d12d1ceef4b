// Package config loads the backend topology file shared by every BuzzBlog
// service and defines the command-line flags common to all of them.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ServiceBackend describes one entry of backend.yml: the RPC endpoints for
// a peer service, and/or the database or Redis endpoint it owns. Any
// combination of the three may be present; unknown YAML keys are ignored by
// the decoder.
type ServiceBackend struct {
	Service  []string `yaml:"service"`
	Database string   `yaml:"database"`
	Redis    string   `yaml:"redis"`
}

// Backend is the parsed form of backend.yml: service name -> its backend
// topology. Every entry is parsed, but each service's entry point looks up
// only the entries it uses and builds pools for those alone; no pool is
// built for an endpoint the local service does not call.
type Backend map[string]ServiceBackend

// LoadBackend reads and parses a backend.yml file.
func LoadBackend(path string) (Backend, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading backend file %s: %w", path, err)
	}
	var b Backend
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("config: parsing backend file %s: %w", path, err)
	}
	return b, nil
}

// Endpoints returns the RPC endpoint list for serviceName, or an error if
// the backend file declares none -- every peer pool needs at least one
// endpoint to round-robin over.
func (b Backend) Endpoints(serviceName string) ([]string, error) {
	entry, ok := b[serviceName]
	if !ok || len(entry.Service) == 0 {
		return nil, fmt.Errorf("config: no service endpoints declared for %q in backend file", serviceName)
	}
	return entry.Service, nil
}

// DatabaseEndpoint returns the "host:port" database endpoint declared for
// serviceName.
func (b Backend) DatabaseEndpoint(serviceName string) (string, error) {
	entry, ok := b[serviceName]
	if !ok || entry.Database == "" {
		return "", fmt.Errorf("config: no database endpoint declared for %q in backend file", serviceName)
	}
	return entry.Database, nil
}

// RedisEndpoint returns the "host:port" Redis endpoint declared for
// serviceName.
func (b Backend) RedisEndpoint(serviceName string) (string, error) {
	entry, ok := b[serviceName]
	if !ok || entry.Redis == "" {
		return "", fmt.Errorf("config: no redis endpoint declared for %q in backend file", serviceName)
	}
	return entry.Redis, nil
}

// PostgresDSN builds a postgres:// connection string the way the source's
// PostgresConnectedServer formats one: the database name is always the
// backend.yml service key that owns it, not a separately configured value.
func PostgresDSN(user, password, host, port, dbname string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, dbname)
}

// SplitHostPort is a small helper for the handful of places that need the
// raw host/port pair rather than a combined "host:port" string (dial
// functions take the combined form; postgres DSN construction wants them
// split).
func SplitHostPort(hostport string) (string, string, error) {
	host, port, found := strings.Cut(hostport, ":")
	if !found {
		return "", "", fmt.Errorf("config: malformed endpoint %q, want host:port", hostport)
	}
	if _, err := strconv.Atoi(port); err != nil {
		return "", "", fmt.Errorf("config: malformed port in endpoint %q: %w", hostport, err)
	}
	return host, port, nil
}
