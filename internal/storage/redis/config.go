package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// TTL settings. Zero keeps documents until they are deleted.
	TournamentTTL time.Duration
	BackupTTL     time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		// The retention sweep removes backups after 7 days; the TTL only
		// catches backups left behind while the sweep was not running.
		BackupTTL: 14 * 24 * time.Hour,
	}
}
