package config

import (
	"fmt"
	"sync"
)

var (
	current   *Config
	currentMu sync.RWMutex
)

// Initialize resolves the configuration for the process (see Resolve)
// and makes it available through Get. Calling it again replaces the
// configuration only if the new one loads and validates.
func Initialize(path string) (*Config, error) {
	cfg, err := Resolve(path)
	if err != nil {
		return nil, err
	}
	Set(cfg)
	return cfg, nil
}

// Get returns the process configuration, or nil before Initialize.
func Get() *Config {
	currentMu.RLock()
	defer currentMu.RUnlock()
	return current
}

// Set replaces the process configuration. Tests use it to inject a
// configuration without touching the filesystem.
func Set(cfg *Config) {
	currentMu.Lock()
	defer currentMu.Unlock()
	current = cfg
}

// Reload re-reads the configuration file at path. The previous
// configuration stays in place when loading fails.
func Reload(path string) error {
	cfg, err := Resolve(path)
	if err != nil {
		return fmt.Errorf("failed to reload configuration: %w", err)
	}
	Set(cfg)
	return nil
}

// MustGet returns the process configuration and panics before Initialize.
func MustGet() *Config {
	cfg := Get()
	if cfg == nil {
		panic("configuration not initialized: call Initialize first")
	}
	return cfg
}
