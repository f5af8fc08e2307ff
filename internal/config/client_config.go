package config

import "time"

type ClientConfig interface {
	GetBaseURL() string
	GetHTTPTimeout() time.Duration
}

type Client struct{}

var _ ClientConfig = Client{}

// GetBaseURL returns the EventPass API base, including the path prefix the
// backend mounts its REST surface under.
func (Client) GetBaseURL() string {
	return GetEnv("EVENTPASS_API_URL", "http://localhost:8000/api")
}

func (Client) GetHTTPTimeout() time.Duration {
	timeout, err := time.ParseDuration(GetEnv("EVENTPASS_HTTP_TIMEOUT", "30s"))
	if err != nil {
		return 30 * time.Second
	}
	return timeout
}
