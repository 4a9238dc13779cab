package main

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const configFilePath = "config.json"

// Config represents the application's configuration structure.
type Config struct {
	Address               string `json:"address" mapstructure:"address"`
	WSAddress             string `json:"ws-address" mapstructure:"ws-address"`
	LogLevel              string `json:"log-level" mapstructure:"log-level"`
	PollIntervalSeconds   int    `json:"poll-interval-seconds" mapstructure:"poll-interval-seconds"`
	ReconnectAttempts     int    `json:"reconnect-attempts" mapstructure:"reconnect-attempts"`
	ReconnectDelaySeconds int    `json:"reconnect-delay-seconds" mapstructure:"reconnect-delay-seconds"`
	SessionCheckSeconds   int    `json:"session-check-seconds" mapstructure:"session-check-seconds"`
	RequestTimeoutSeconds int    `json:"request-timeout-seconds" mapstructure:"request-timeout-seconds"`
}

var requiredFields = []string{
	"address",
}

// field: default value
var optionalFields = map[string]interface{}{
	"ws-address":              "",
	"log-level":               "INFO",
	"poll-interval-seconds":   30,
	"reconnect-attempts":      3,
	"reconnect-delay-seconds": 2,
	"session-check-seconds":   60,
	"request-timeout-seconds": 10,
}

// InitConfig reads configuration from a JSON file and environment variables.
// Environment variables take precedence over the config file.
func InitConfig() (*Config, error) {
	v := viper.New()

	// Set config file type and name
	v.SetConfigFile(configFilePath)
	v.SetConfigType("json")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	for _, field := range requiredFields {
		v.BindEnv(field)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	for _, field := range requiredFields {
		if !v.IsSet(field) {
			return nil, fmt.Errorf("missing required config field: %s", field)
		}
	}

	// Set defaults for optional fields if not set
	for optField, defaultValue := range optionalFields {
		if !v.IsSet(optField) {
			v.Set(optField, defaultValue)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	if config.WSAddress == "" {
		config.WSAddress = deriveWSAddress(config.Address)
	}

	return &config, nil
}

// deriveWSAddress turns the HTTP base URL into the matching WebSocket URL.
func deriveWSAddress(address string) string {
	switch {
	case strings.HasPrefix(address, "https://"):
		return "wss://" + strings.TrimPrefix(address, "https://") + "/socket"
	case strings.HasPrefix(address, "http://"):
		return "ws://" + strings.TrimPrefix(address, "http://") + "/socket"
	default:
		return "ws://" + address + "/socket"
	}
}
