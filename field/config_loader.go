package field

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultLayoutPath is the field layout used when none is configured.
const DefaultLayoutPath = "2025-reefscape.json"

// DefaultSimplifyTolerance is the Douglas-Peucker tolerance (meters)
// applied to trajectory paths before GeoJSON export.
const DefaultSimplifyTolerance = 0.05

// DefaultConfig returns a config populated with defaults.
func DefaultConfig() *Config {
	return &Config{
		Layout:            DefaultLayoutPath,
		Slice:             DefaultSliceDegrees,
		SimplifyTolerance: DefaultSimplifyTolerance,
		HTTP:              HTTPConfig{Port: 8080},
	}
}

// LoadConfig loads the configuration from a YAML file, applying defaults
// for unset fields.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(&config)

	if err := validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(path string, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshaling config YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

func applyDefaults(config *Config) {
	if config.Layout == "" {
		config.Layout = DefaultLayoutPath
	}
	if config.Slice == 0 {
		config.Slice = DefaultSliceDegrees
	}
	if config.SimplifyTolerance == 0 {
		config.SimplifyTolerance = DefaultSimplifyTolerance
	}
	if config.HTTP.Port == 0 {
		config.HTTP.Port = 8080
	}
	if config.MQTT.Broker != "" && config.MQTT.ClientID == "" {
		config.MQTT.ClientID = "tagtrace"
	}
}

func validate(config *Config) error {
	if config.Slice <= 0 || config.Slice > 360 {
		return fmt.Errorf("slice must be in (0, 360], got %v", config.Slice)
	}
	if config.SimplifyTolerance < 0 {
		return fmt.Errorf("simplifyTolerance must not be negative, got %v", config.SimplifyTolerance)
	}
	if config.MQTT.Topic != "" && config.MQTT.Broker == "" {
		return fmt.Errorf("mqtt.broker is required when mqtt.topic is set")
	}
	return nil
}
