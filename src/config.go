package src

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"redis_backed_model/src/model"
)

type Config struct {
	LogConfig   model.LogConfig
	StoreConfig model.StoreConfig
}

// LoadConfig reads each section from the environment. Sections are processed
// separately so their variables are not prefixed with the section name.
func LoadConfig() (*Config, error) {
	var config Config
	for _, section := range []any{&config.LogConfig, &config.StoreConfig} {
		if err := envconfig.Process("", section); err != nil {
			return nil, fmt.Errorf("error processing environment configuration: %w", err)
		}
	}

	return &config, nil
}
