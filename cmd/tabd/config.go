// CLAUDE:SUMMARY Parses the optional tabd YAML configuration file with defaults.
package main

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/feldrik/tabd/cluster"
)

// fileConfig is the optional YAML configuration file. Environment variables
// override the scalar fields; see main.
type fileConfig struct {
	Server   serverConfig   `yaml:"server"`
	Embed    embedConfig    `yaml:"embed"`
	Cache    cacheConfig    `yaml:"cache"`
	Runs     runsConfig     `yaml:"runs"`
	Browser  browserConfig  `yaml:"browser"`
	Grouping groupingConfig `yaml:"grouping"`
}

type serverConfig struct {
	Port         string `yaml:"port"`
	AuthPassword string `yaml:"auth_password"`
}

type embedConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Model     string `yaml:"model"`
	Dimension int    `yaml:"dimension"`
}

type cacheConfig struct {
	Path string `yaml:"path"`
}

type runsConfig struct {
	Path          string `yaml:"path"`
	RetentionDays int    `yaml:"retention_days"`
}

type browserConfig struct {
	Remote string `yaml:"remote"`
	Launch bool   `yaml:"launch"`
}

type groupingConfig struct {
	Strategy     string         `yaml:"strategy"`
	AnchorLabels []string       `yaml:"anchor_labels"`
	Engine       cluster.Config `yaml:"engine"`
}

// loadConfig reads the YAML file at path, or returns defaults when path is
// empty.
func loadConfig(path string) (*fileConfig, error) {
	var cfg fileConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *fileConfig) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8090"
	}
	if c.Runs.Path == "" {
		c.Runs.Path = "db/runs.db"
	}
	if c.Runs.RetentionDays == 0 {
		c.Runs.RetentionDays = 30
	}
	if c.Grouping.Strategy == "" {
		c.Grouping.Strategy = string(cluster.StrategySemantic)
	}
}
