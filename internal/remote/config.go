package remote

import "time"

// Config holds client-side settings for the progress service.
type Config struct {
	// BaseURL is the service root, e.g. "http://localhost:8080".
	BaseURL string

	// Timeout bounds a single HTTP request. Default: 10s.
	Timeout time.Duration

	Retry RetryConfig

	// WritesPerSecond throttles SetLessonFlag calls. 0 disables throttling.
	WritesPerSecond float64

	// WriteBurst is the limiter burst size. Default: 1.
	WriteBurst int
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:8080",
		Timeout: 10 * time.Second,
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 250 * time.Millisecond,
			MaxWait:     2 * time.Second,
			Multiplier:  2.0,
		},
		WritesPerSecond: 2,
		WriteBurst:      2,
	}
}
