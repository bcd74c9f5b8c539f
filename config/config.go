package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Source kinds understood by the board builder
const (
	KindMonotonic = "monotonic" // host CLOCK_MONOTONIC_RAW, 1 GHz
	KindSerial    = "serial"    // counter streamed by a device on a serial port
	KindDS3231    = "ds3231"    // DS3231 RTC seconds counter on an I2C bus
)

// BoardConfig describes the clocksources of one board
type BoardConfig struct {
	Name string `json:"name"`

	// EarlyPhase starts the clock without the dummy fallback
	EarlyPhase bool `json:"early_phase"`

	// DummyRate is the dummy counter step per read in ns
	DummyRate uint64 `json:"dummy_rate"`

	Sources []SourceConfig `json:"sources"`
}

// SourceConfig describes one clocksource
type SourceConfig struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Priority    int32  `json:"priority"`
	FrequencyHz uint32 `json:"frequency_hz"`
	Bits        uint   `json:"bits"`
	MaxSeconds  uint32 `json:"max_seconds"`

	// Serial and I2C attached sources
	Device        string `json:"device"`
	Baud          int    `json:"baud"`
	ReadTimeoutMs int    `json:"read_timeout_ms"`
	Address       uint16 `json:"address"`
}

// LoadConfig parses a JSON configuration and returns a validated BoardConfig
func LoadConfig(jsonData []byte) (*BoardConfig, error) {
	var config BoardConfig

	err := json.Unmarshal(jsonData, &config)
	if err != nil {
		return nil, err
	}

	// Apply defaults
	applyDefaults(&config)

	if err := Validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadFile reads and parses a JSON configuration file
func LoadFile(path string) (*BoardConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	config, err := LoadConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

// applyDefaults fills in missing configuration values with sensible defaults
func applyDefaults(config *BoardConfig) {
	if config.Name == "" {
		config.Name = "board"
	}
	if config.DummyRate == 0 {
		config.DummyRate = 1000 // 1us per read
	}

	for i := range config.Sources {
		src := &config.Sources[i]

		if src.Name == "" {
			src.Name = src.Kind
		}
		if src.MaxSeconds == 0 {
			src.MaxSeconds = 3600
		}

		switch src.Kind {
		case KindMonotonic:
			if src.FrequencyHz == 0 {
				src.FrequencyHz = 1000000000
			}
			if src.Bits == 0 {
				src.Bits = 64
			}
		case KindSerial:
			if src.Bits == 0 {
				src.Bits = 32
			}
			if src.Baud == 0 {
				src.Baud = 115200
			}
			if src.ReadTimeoutMs == 0 {
				src.ReadTimeoutMs = 100
			}
		case KindDS3231:
			// seconds since the epoch, one tick per second
			if src.FrequencyHz == 0 {
				src.FrequencyHz = 1
			}
			if src.Bits == 0 {
				src.Bits = 64
			}
			if src.Address == 0 {
				src.Address = 0x68
			}
		}
	}
}

// Validate checks a configuration after defaults were applied
func Validate(config *BoardConfig) error {
	names := make(map[string]bool)

	for _, src := range config.Sources {
		switch src.Kind {
		case KindMonotonic:
		case KindSerial, KindDS3231:
			if src.Device == "" {
				return fmt.Errorf("source %q: device is required for kind %s", src.Name, src.Kind)
			}
		case "":
			return fmt.Errorf("source %q: kind is required", src.Name)
		default:
			return fmt.Errorf("source %q: unknown kind %q", src.Name, src.Kind)
		}

		if src.FrequencyHz == 0 {
			return fmt.Errorf("source %q: frequency_hz must be positive", src.Name)
		}
		if src.Bits == 0 || src.Bits > 64 {
			return fmt.Errorf("source %q: bits must be between 1 and 64, got %d", src.Name, src.Bits)
		}
		if names[src.Name] {
			return errors.New("duplicate source name " + src.Name)
		}
		names[src.Name] = true
	}

	return nil
}

// DefaultHostConfig returns a configuration using the host monotonic clock
func DefaultHostConfig() *BoardConfig {
	config := &BoardConfig{
		Name: "host",
		Sources: []SourceConfig{
			{
				Name:     "monotonic-raw",
				Kind:     KindMonotonic,
				Priority: 100,
			},
		},
	}
	applyDefaults(config)
	return config
}
