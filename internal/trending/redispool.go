package trending

import (
	"time"

	"github.com/gomodule/redigo/redis"
)

// NewRedisPool builds a redigo connection pool to endpoint. maxActive caps
// pooled connections the way --redis_connection_pool_size does; 0 lets
// redigo grow unbounded, mirroring the other pools' 0-disables-bound
// convention.
func NewRedisPool(endpoint string, maxActive int) *redis.Pool {
	return &redis.Pool{
		MaxActive:   maxActive,
		MaxIdle:     maxActive,
		IdleTimeout: 5 * time.Minute,
		Wait:        maxActive > 0,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", endpoint)
		},
	}
}
