package config

import (
	"strings"
	"time"
)

const (
	apiURLVar      = "API_URL"
	httpTimeoutVar = "HTTP_TIMEOUT"
)

type APIConfig interface {
	GetAPIURL() string
	GetHTTPTimeout() time.Duration
}

type API struct{}

var _ APIConfig = API{}

// GetAPIURL returns the marketplace API base URL without a trailing slash.
func (API) GetAPIURL() string {
	return strings.TrimRight(GetEnv(apiURLVar, "http://localhost:8080"), "/")
}

func (API) GetHTTPTimeout() time.Duration {
	if d, err := time.ParseDuration(GetEnv(httpTimeoutVar, "")); err == nil && d > 0 {
		return d
	}
	return 30 * time.Second
}
