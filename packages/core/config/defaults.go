package config

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		FixturesDir: "fixtures",
		Output:      "console",
		Debounce:    300,
	}
}
