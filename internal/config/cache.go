package config

import "time"

// CacheConfig defines settings for the response cache middleware.  When
// Enabled is false or no Redis client is configured, caching is disabled.
// Methods is a comma separated list of HTTP methods to cache.  KeyStrategy
// determines which parts of the request contribute to the cache key.
type CacheConfig struct {
    Enabled      bool          `env:"CACHE_ENABLED" env-default:"true"`
    Methods      string        `env:"CACHE_METHODS" env-default:"GET"`
    TTL          time.Duration `env:"CACHE_TTL" env-default:"30s"`
    KeyStrategy  string        `env:"CACHE_KEY_STRATEGY" env-default:"route_query"`
    Prefix       string        `env:"CACHE_PREFIX" env-default:"cache"`
    MaxBodyBytes int           `env:"CACHE_MAX_BODY_BYTES" env-default:"1048576"`
}

// MethodSet returns the upper-cased set of cacheable methods.
func (c CacheConfig) MethodSet() map[string]bool { return parseMethods(c.Methods) }
