package cliconfig

import "os"

// ApplyEnvConfig applies MQSHIP_* environment variables to the Config.
// Environment overrides the config file but is overridden by flags
// (checked via the changed map).
func ApplyEnvConfig(cfg *Config, changed map[string]bool) {
	s := newConfigSetter(changed)

	s.setString("destination", os.Getenv("MQSHIP_DESTINATION"), &cfg.Destination)
	s.setString("log-level", os.Getenv("MQSHIP_LOG_LEVEL"), &cfg.LogLevel)

	_ = s.setDuration("connect-timeout", os.Getenv("MQSHIP_CONNECT_TIMEOUT"), &cfg.ConnectTimeout)
	_ = s.setDuration("write-timeout", os.Getenv("MQSHIP_WRITE_TIMEOUT"), &cfg.WriteTimeout)
	_ = s.setDuration("backoff-base", os.Getenv("MQSHIP_BACKOFF_BASE"), &cfg.BackoffBase)
	_ = s.setDuration("backoff-max", os.Getenv("MQSHIP_BACKOFF_MAX"), &cfg.BackoffMax)
	_ = s.setIntFromString("max-attempts", os.Getenv("MQSHIP_MAX_ATTEMPTS"), &cfg.MaxAttempts)

	s.setBoolFromString("breaker", os.Getenv("MQSHIP_BREAKER"), &cfg.Breaker)
	s.setBoolFromString("transactional", os.Getenv("MQSHIP_TRANSACTIONAL"), &cfg.Transactional)
	s.setBoolFromString("watch", os.Getenv("MQSHIP_WATCH"), &cfg.Watch)

	if v := os.Getenv("MQSHIP_HOSTS"); v != "" && !changed["hosts"] && len(cfg.Groups) == 0 {
		cfg.Groups = []GroupConfig{ParseHostList("env", v)}
	}
}
