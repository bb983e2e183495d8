package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and saves the
// resulting Config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to docchat! Let's point it at your document backend.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Backend location.
	urlPrompt := promptui.Prompt{
		Label:   "Backend URL",
		Default: cfg.Backend.URL,
		Validate: func(s string) error {
			candidate := DefaultConfig()
			candidate.Backend.URL = strings.TrimSpace(s)
			return candidate.Validate()
		},
	}
	backendURL, err := urlPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("backend url: %w", err)
	}
	cfg.Backend.URL = strings.TrimRight(strings.TrimSpace(backendURL), "/")

	// 2. Request timeout.
	timeoutPrompt := promptui.Prompt{
		Label:   "Request timeout (0 waits indefinitely)",
		Default: "0s",
		Validate: func(s string) error {
			d, err := time.ParseDuration(strings.TrimSpace(s))
			if err != nil {
				return err
			}
			if d < 0 {
				return fmt.Errorf("timeout must be non-negative")
			}
			return nil
		},
	}
	timeoutStr, err := timeoutPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("timeout: %w", err)
	}
	cfg.Backend.Timeout, _ = time.ParseDuration(strings.TrimSpace(timeoutStr))

	// 3. Web UI port.
	portPrompt := promptui.Prompt{
		Label:   "Web UI port",
		Default: strconv.Itoa(cfg.Web.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("web port: %w", err)
	}
	cfg.Web.Port, _ = strconv.Atoi(strings.TrimSpace(portStr))

	// 4. Log level.
	levelPrompt := promptui.Select{
		Label: "Log level",
		Items: []string{string(LogInfo), string(LogDebug), string(LogWarn), string(LogError)},
	}
	_, level, err := levelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	cfg.Log.Level = LogLevel(level)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}
