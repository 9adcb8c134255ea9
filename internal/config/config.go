// Package config loads the optional device configuration file.
// Flags take precedence over file values; the file exists so a deployed unit
// can carry its wiring (SPI port, pins, broker) without a custom unit file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/keenan/cuff-monitor/internal/gpio"
)

// SensorConfig selects the SPI port for the MPR sensor.
type SensorConfig struct {
	SPIPort string `yaml:"spi_port"`
}

// PinsConfig holds the BCM pin assignments for the front panel.
type PinsConfig struct {
	Button     int `yaml:"button"`
	CaptureLED int `yaml:"capture_led"`
	MaxLED     int `yaml:"max_pressure_led"`
	WarnLED    int `yaml:"warning_led"`
}

// MQTTConfig holds broker settings.
type MQTTConfig struct {
	Enabled bool   `yaml:"enabled"`
	Broker  string `yaml:"broker"`
}

// StreamConfig holds the optional NATS waveform feed settings.
type StreamConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
	Batch   int    `yaml:"batch"`
}

// SamplingConfig holds the measurement cadences.
type SamplingConfig struct {
	Interval        time.Duration `yaml:"interval"`
	MonitorInterval time.Duration `yaml:"monitor_interval"`
}

// UnmarshalYAML parses the cadences from duration strings ("200ms", "1s").
// Fields absent from the file keep their current values.
func (s *SamplingConfig) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Interval        string `yaml:"interval"`
		MonitorInterval string `yaml:"monitor_interval"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	if raw.Interval != "" {
		d, err := time.ParseDuration(raw.Interval)
		if err != nil {
			return fmt.Errorf("sampling.interval: %w", err)
		}
		s.Interval = d
	}
	if raw.MonitorInterval != "" {
		d, err := time.ParseDuration(raw.MonitorInterval)
		if err != nil {
			return fmt.Errorf("sampling.monitor_interval: %w", err)
		}
		s.MonitorInterval = d
	}
	return nil
}

// Config is the full device configuration.
type Config struct {
	Sensor   SensorConfig   `yaml:"sensor"`
	Pins     PinsConfig     `yaml:"pins"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Stream   StreamConfig   `yaml:"stream"`
	Sampling SamplingConfig `yaml:"sampling"`
	HTTPAddr string         `yaml:"http_addr"`
}

// Default returns the built-in configuration matching the reference wiring.
func Default() Config {
	return Config{
		Sensor: SensorConfig{SPIPort: ""},
		Pins: PinsConfig{
			Button:     gpio.DefaultPinButton,
			CaptureLED: gpio.DefaultPinCaptureLED,
			MaxLED:     gpio.DefaultPinMaxLED,
			WarnLED:    gpio.DefaultPinWarnLED,
		},
		MQTT: MQTTConfig{Enabled: true, Broker: "tcp://192.168.1.200:1883"},
		Stream: StreamConfig{
			Enabled: false,
			URL:     "nats://127.0.0.1:4222",
			Subject: "cuff.pressure",
			Batch:   25,
		},
		Sampling: SamplingConfig{
			Interval:        200 * time.Millisecond,
			MonitorInterval: time.Second,
		},
		HTTPAddr: ":8080",
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Sampling.Interval <= 0 {
		return fmt.Errorf("sampling.interval must be positive, got %v", c.Sampling.Interval)
	}
	if c.Sampling.MonitorInterval <= 0 {
		return fmt.Errorf("sampling.monitor_interval must be positive, got %v", c.Sampling.MonitorInterval)
	}
	if c.MQTT.Enabled && c.MQTT.Broker == "" {
		return fmt.Errorf("mqtt.broker required when mqtt is enabled")
	}
	if c.Stream.Enabled && c.Stream.URL == "" {
		return fmt.Errorf("stream.url required when stream is enabled")
	}
	return nil
}
