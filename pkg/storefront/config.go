package storefront

import "time"

// Config represents the configuration for the storefront API client
type Config struct {
	// Endpoint is the commerce backend's storefront query endpoint
	Endpoint string

	// AccessToken authenticates storefront queries
	AccessToken string

	// Timeout bounds one query round trip; zero means the default
	Timeout time.Duration
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return ErrInvalidConfig
	}
	return nil
}
