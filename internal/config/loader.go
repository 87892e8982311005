package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"redis_backed_model/internal/core"
)

// YAMLConfig represents the structure of the models file
type YAMLConfig struct {
	Models []ModelConfig `yaml:"models"`
}

// ModelConfig declares one model and, optionally, its key prefix
type ModelConfig struct {
	Name      string `yaml:"name"`
	KeyPrefix string `yaml:"key_prefix"`
}

// Registry resolves model names to their key layout
type Registry struct {
	models map[string]core.Model
}

// LoadModels loads the models file. A missing file yields an empty registry.
func LoadModels(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Registry{models: map[string]core.Model{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	return ParseModels(data)
}

// ParseModels parses a models document
func ParseModels(data []byte) (*Registry, error) {
	var config YAMLConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing YAML: %w", err)
	}

	reg := &Registry{models: make(map[string]core.Model, len(config.Models))}
	for i, m := range config.Models {
		if m.Name == "" {
			return nil, fmt.Errorf("model %d: name is required", i)
		}
		if _, dup := reg.models[m.Name]; dup {
			return nil, fmt.Errorf("model %q declared twice", m.Name)
		}
		reg.models[m.Name] = core.Model{Name: m.Name, KeyPrefix: m.KeyPrefix}
	}
	return reg, nil
}

// Model returns the declared model, or one derived from name if it was not declared
func (r *Registry) Model(name string) core.Model {
	if m, ok := r.models[name]; ok {
		return m
	}
	return core.NewModel(name)
}

// Len is the number of declared models
func (r *Registry) Len() int {
	return len(r.models)
}
