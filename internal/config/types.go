package config

import "time"

// LogLevel controls the minimum severity written by the logger.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// Config is the top-level docchat configuration, corresponding to .docchat.yml.
type Config struct {
	Backend BackendConfig `yaml:"backend" koanf:"backend"`
	Web     WebConfig     `yaml:"web" koanf:"web"`
	Log     LogConfig     `yaml:"log" koanf:"log"`
}

// BackendConfig describes where the document Q&A backend lives.
type BackendConfig struct {
	URL        string `yaml:"url" koanf:"url"`
	UploadPath string `yaml:"upload_path" koanf:"upload_path"`
	AskPath    string `yaml:"ask_path" koanf:"ask_path"`
	// Timeout applies to each request. Zero waits for the network layer.
	Timeout time.Duration `yaml:"timeout" koanf:"timeout"`
}

// WebConfig holds settings for the local web UI.
type WebConfig struct {
	Port            int           `yaml:"port" koanf:"port"`
	AllowAllOrigins bool          `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	SessionTTL      time.Duration `yaml:"session_ttl" koanf:"session_ttl"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level LogLevel `yaml:"level" koanf:"level"`
	File  string   `yaml:"file" koanf:"file"`
	JSON  bool     `yaml:"json" koanf:"json"`
}
