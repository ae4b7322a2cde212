package config

import (
	"strings"
	"time"
)

// CacheConfig controls the Redis response cache fronting the catalog proxy
// routes.  Methods lists the HTTP methods eligible for caching, TTL the
// entry lifetime, and KeyStrategy which parts of the request form the key.
// MaxBodyBytes caps how large a response body may be before it is truncated
// in the cache.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool
	TTL          time.Duration
	KeyStrategy  string
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads the CACHE_* environment variables.  The catalog
// changes rarely, so the default TTL is generous.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      parseMethods(getenvDefault("CACHE_METHODS", "GET")),
		TTL:          envDur("CACHE_TTL", 5*time.Minute),
		KeyStrategy:  getenvDefault("CACHE_KEY_STRATEGY", "route_query"),
		Prefix:       getenvDefault("CACHE_PREFIX", "catalog"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}

func parseMethods(s string) map[string]bool {
	m := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(strings.ToUpper(p))
		if p != "" {
			m[p] = true
		}
	}
	return m
}
