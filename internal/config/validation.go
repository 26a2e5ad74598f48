package config

import "fmt"

func validate(c *Config) error {
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be > 0")
	}
	if c.SleepInterval < 0 {
		return fmt.Errorf("sleep interval must be >= 0")
	}
	if c.MaxURLs <= 0 {
		return fmt.Errorf("max urls must be > 0")
	}
	if c.ExcerptLimit <= 0 {
		return fmt.Errorf("excerpt limit must be > 0")
	}
	if c.PreviewLimit <= 0 {
		return fmt.Errorf("preview limit must be > 0")
	}
	return nil
}
