package resilience

import "time"

type CircuitBreakerConfig struct {
	Enabled     bool
	MaxFailures int
	Cooldown    time.Duration
	MaxProbes   int
}

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:     true,
		MaxFailures: 5,
		Cooldown:    15 * time.Second,
		MaxProbes:   2,
	}
}

func NormalizeCircuitBreakerConfig(cfg CircuitBreakerConfig) CircuitBreakerConfig {
	defaults := DefaultCircuitBreakerConfig()
	if cfg.MaxFailures < 1 {
		cfg.MaxFailures = defaults.MaxFailures
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = defaults.Cooldown
	}
	if cfg.MaxProbes < 1 {
		cfg.MaxProbes = defaults.MaxProbes
	}
	return cfg
}
