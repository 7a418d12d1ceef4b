package config

import "github.com/spf13/pflag"

// ServerFlags are accepted by every BuzzBlog service.
type ServerFlags struct {
	Host            string
	Port            int
	Threads         int
	AcceptBacklog   int
	BackendFilepath string
	Logging         bool
}

// RegisterServerFlags adds the flags common to every service to fs.
func RegisterServerFlags(fs *pflag.FlagSet, f *ServerFlags) {
	fs.StringVar(&f.Host, "host", "0.0.0.0", "address to bind the RPC listener to")
	fs.IntVar(&f.Port, "port", 0, "port to bind the RPC listener to (required)")
	fs.IntVar(&f.Threads, "threads", 0, "maximum simultaneously served clients (0 = unlimited)")
	fs.IntVar(&f.AcceptBacklog, "accept_backlog", 0, "TCP listen backlog (0 = OS default)")
	fs.StringVar(&f.BackendFilepath, "backend_filepath", "/etc/opt/BuzzBlog/backend.yml", "path to the backend topology file")
	fs.BoolVar(&f.Logging, "logging", true, "enable structured logging to /tmp")
}

// MicroservicePoolFlags configure the pool of peer RPC client stubs a
// service holds to each downstream service it calls.
type MicroservicePoolFlags struct {
	MinSize        int
	MaxSize        int
	AllowEphemeral bool
}

func RegisterMicroservicePoolFlags(fs *pflag.FlagSet, f *MicroservicePoolFlags) {
	fs.IntVar(&f.MinSize, "microservice_connection_pool_min_size", 0, "pre-warmed peer RPC connections per downstream service")
	fs.IntVar(&f.MaxSize, "microservice_connection_pool_max_size", 0, "maximum pooled peer RPC connections per downstream service (0 disables pooling)")
	fs.BoolVar(&f.AllowEphemeral, "microservice_connection_pool_allow_ephemeral", false, "allow ephemeral peer connections above max_size")
}

// PostgresPoolFlags configure a service's database connection pool and
// credentials.
type PostgresPoolFlags struct {
	MinSize        int
	MaxSize        int
	AllowEphemeral bool
	User           string
	Password       string
}

func RegisterPostgresPoolFlags(fs *pflag.FlagSet, f *PostgresPoolFlags) {
	fs.IntVar(&f.MinSize, "postgres_connection_pool_min_size", 0, "pre-warmed database sessions")
	fs.IntVar(&f.MaxSize, "postgres_connection_pool_max_size", 0, "maximum pooled database sessions (0 disables pooling)")
	fs.BoolVar(&f.AllowEphemeral, "postgres_connection_pool_allow_ephemeral", false, "allow ephemeral database sessions above max_size")
	fs.StringVar(&f.User, "postgres_user", "postgres", "postgres role used to connect")
	fs.StringVar(&f.Password, "postgres_password", "postgres", "postgres password used to connect")
}

// RedisPoolFlags configures the trending service's Redis connection pool.
type RedisPoolFlags struct {
	PoolSize int
}

func RegisterRedisPoolFlags(fs *pflag.FlagSet, f *RedisPoolFlags) {
	fs.IntVar(&f.PoolSize, "redis_connection_pool_size", 0, "maximum pooled Redis connections (0 disables pooling)")
}
