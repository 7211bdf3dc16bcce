package config

import "time"

type Config struct {
	Database   DatabaseConfig `mapstructure:"database"`
	Defaults   DefaultsConfig `mapstructure:"defaults"`
	Server     ServerConfig   `mapstructure:"server"`
	Sync       SyncConfig     `mapstructure:"sync"`
	Log        LogConfig      `mapstructure:"log"`
	ConfigPath string         `mapstructure:"-"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type DefaultsConfig struct {
	Currency string `mapstructure:"currency"`
}

type ServerConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type SyncConfig struct {
	// AccountConcurrency bounds parallel account fetches during a sync.
	AccountConcurrency int `mapstructure:"account_concurrency"`
	// SubmitRate caps remote calls per second, 0 disables the limit.
	SubmitRate float64 `mapstructure:"submit_rate"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

func NewDefault() *Config {
	return &Config{
		Database: DatabaseConfig{Path: ""},
		Defaults: DefaultsConfig{Currency: "EUR"},
		Server:   ServerConfig{Timeout: 10 * time.Second},
		Sync:     SyncConfig{AccountConcurrency: 4},
		Log:      LogConfig{Level: "warn"},
	}
}

// Defaults lists the keys written to a freshly created config file.
func Defaults() map[string]any {
	d := NewDefault()
	return map[string]any{
		"database.path":            d.Database.Path,
		"defaults.currency":        d.Defaults.Currency,
		"server.base_url":          d.Server.BaseURL,
		"server.timeout":           d.Server.Timeout.String(),
		"sync.account_concurrency": d.Sync.AccountConcurrency,
		"sync.submit_rate":         d.Sync.SubmitRate,
		"log.level":                d.Log.Level,
	}
}
