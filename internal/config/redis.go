package config

// This file defines the Redis client constructor.  Redis backs distributed
// rate limiting, the public response cache and the payment lock.  If the
// server cannot be reached at startup, NewRedisClient returns nil and the
// callers degrade gracefully (no cache, no rate limit, no cross-instance
// payment lock).

import (
    "context"
    "crypto/tls"
    "time"

    "github.com/redis/go-redis/v9"
)

// RedisConfig is read from REDIS_* variables.  Addr wins over Host/Port
// when both are set.
type RedisConfig struct {
    Host     string `env:"REDIS_HOST"`
    Port     string `env:"REDIS_PORT"`
    Addr     string `env:"REDIS_ADDR" env-default:"localhost:6379"`
    Password string `env:"REDIS_PASSWORD"`
    DB       int    `env:"REDIS_DB" env-default:"0"`
    TLS      bool   `env:"REDIS_TLS" env-default:"false"`
}

func (c RedisConfig) address() string {
    if c.Host != "" && c.Port != "" {
        return c.Host + ":" + c.Port
    }
    return c.Addr
}

// NewRedisClient instantiates a Redis client and pings it with a short
// timeout.  The returned client is nil when the ping fails.
func NewRedisClient(c RedisConfig) *redis.Client {
    var tlsConf *tls.Config
    if c.TLS {
        tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
    }
    client := redis.NewClient(&redis.Options{
        Addr:      c.address(),
        Password:  c.Password,
        DB:        c.DB,
        TLSConfig: tlsConf,
    })
    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    if err := client.Ping(ctx).Err(); err != nil {
        _ = client.Close()
        return nil
    }
    return client
}
