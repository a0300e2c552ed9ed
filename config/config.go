// Package config loads the YAML configuration shared by the service
// binaries. Every field has a working default so the binaries run against a
// local Temporal dev server with in-memory backends when no file is given.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dishpatch/dishpatch/orders"
)

type (
	// Config is the root configuration.
	Config struct {
		Temporal Temporal `yaml:"temporal"`
		Mongo    Mongo    `yaml:"mongo"`
		Redis    Redis    `yaml:"redis"`
	}

	// Temporal configures the Temporal connection and task queue.
	Temporal struct {
		HostPort  string `yaml:"host_port"`
		Namespace string `yaml:"namespace"`
		TaskQueue string `yaml:"task_queue"`
		// TLSCert and TLSKey enable mTLS (Temporal Cloud). Both or neither.
		TLSCert string `yaml:"tls_cert"`
		TLSKey  string `yaml:"tls_key"`
	}

	// Mongo configures the order store. An empty URI selects the in-memory
	// store.
	Mongo struct {
		URI      string `yaml:"uri"`
		Database string `yaml:"database"`
	}

	// Redis configures the preference cache and the Pulse push notifier. An
	// empty address disables both.
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	}
)

// Default returns the configuration used when no file is provided.
func Default() Config {
	return Config{
		Temporal: Temporal{
			HostPort:  "localhost:7233",
			Namespace: "default",
			TaskQueue: orders.TaskQueue,
		},
		Mongo: Mongo{
			Database: "dishpatch",
		},
	}
}

// Load reads the configuration file at path, filling missing fields with
// defaults. An empty path returns Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Temporal.HostPort == "" {
		cfg.Temporal.HostPort = "localhost:7233"
	}
	if cfg.Temporal.Namespace == "" {
		cfg.Temporal.Namespace = "default"
	}
	if cfg.Temporal.TaskQueue == "" {
		cfg.Temporal.TaskQueue = orders.TaskQueue
	}
	return cfg, nil
}
