package config

// ValidateForRun checks the configuration required to start the server.
func ValidateForRun(cfg *Config) error {
	if err := cfg.Redis.Validate(); err != nil {
		return err
	}
	return cfg.Scheduler.Validate()
}
