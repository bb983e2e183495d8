package config

import "time"

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = ".docchat.yml"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:        "http://localhost:5000",
			UploadPath: "/upload",
			AskPath:    "/ask",
		},
		Web: WebConfig{
			Port:       8080,
			SessionTTL: 2 * time.Hour,
		},
		Log: LogConfig{
			Level: LogInfo,
		},
	}
}
