package config

import (
	"fmt"
	"os"
	"time"
)

// ClientConfig is the dashboard client's view of [StructuredConfig].
type ClientConfig struct {
	// Adapter contains the server address and outbound timeout.
	Adapter Adapter
	// Email and Password are used to sign in before fetching the dashboard.
	Email    string
	Password string
	// RefreshInterval is how often the dashboard is re-fetched; zero prints once.
	RefreshInterval time.Duration
}

// GetClientConfig builds and validates a client-specific config view. Server
// side settings are not validated here.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := newConfigBuilder().
		withDefaults().
		withEnv().
		withFlags(os.Args[1:]).
		withJSON().
		merge()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return newClientConfig(cfg)
}

func newClientConfig(cfg *StructuredConfig) (*ClientConfig, error) {
	clientCfg := &ClientConfig{
		Adapter:         cfg.Adapter,
		Email:           cfg.Client.Email,
		Password:        cfg.Client.Password,
		RefreshInterval: cfg.Client.RefreshInterval,
	}

	return clientCfg, clientCfg.validate()
}
