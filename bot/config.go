// Package bot assembles the transit bot: configuration, service wiring, and
// the Telegram transport adapter around the conversation engine.
package bot

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/m3rciful/transitbot/core/config"
	coredatabase "github.com/m3rciful/transitbot/core/database"
)

// PaymentConfig paces the simulated payment steps.
type PaymentConfig struct {
	ProcessingMS int `yaml:"processing_ms" envconfig:"PAYMENT_PROCESSING_MS"`
	GenerationMS int `yaml:"generation_ms" envconfig:"PAYMENT_GENERATION_MS"`
}

// MenuConfig controls the automatic return to the main menu.
type MenuConfig struct {
	ReturnDelayMS int `yaml:"return_delay_ms" envconfig:"MENU_RETURN_DELAY_MS"`
}

// RoutesConfig points at static route assets served by the route info flow.
type RoutesConfig struct {
	DocPath string `yaml:"doc_path" envconfig:"ROUTES_DOC_PATH"`
}

// HealthConfig controls the liveness endpoint.
type HealthConfig struct {
	Listen string `yaml:"listen" envconfig:"HEALTH_LISTEN"`
}

// Config is the full application configuration.
type Config struct {
	Core     coreconfig.Config   `yaml:",inline"`
	Database coredatabase.Config `yaml:"database"`
	Health   HealthConfig        `yaml:"health"`
	Payment  PaymentConfig       `yaml:"payment"`
	Menu     MenuConfig          `yaml:"menu"`
	Routes   RoutesConfig        `yaml:"routes"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Core
}

// LoadConfig reads the YAML file, applies environment overrides, and
// validates the result.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Payment.ProcessingMS <= 0 {
		cfg.Payment.ProcessingMS = 2000
	}
	if cfg.Payment.GenerationMS <= 0 {
		cfg.Payment.GenerationMS = 1500
	}
	if cfg.Menu.ReturnDelayMS <= 0 {
		cfg.Menu.ReturnDelayMS = 3000
	}
	if cfg.Health.Listen == "" {
		cfg.Health.Listen = ":8081"
	}
}
