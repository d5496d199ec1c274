package common

// CacheConfig holds the redis connection settings shared by every component
// that takes a cache.
type CacheConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	TLS      bool
}
