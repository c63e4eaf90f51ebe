package config

import "fmt"

func validate(c *Config) error {
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be > 0")
	}
	if c.ProbeTimeout <= 0 {
		return fmt.Errorf("probe timeout must be > 0")
	}
	if c.AnalysisCacheTTL <= 0 {
		return fmt.Errorf("analysis cache ttl must be > 0")
	}
	if c.Concurrency <= 0 || c.Concurrency > DefaultMaxConcurrency {
		return fmt.Errorf("concurrency must be between 1 and %d", DefaultMaxConcurrency)
	}
	if c.SourcesFile == "" {
		return fmt.Errorf("sources file must be set")
	}
	return nil
}
