package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DatabasePath string `yaml:"DatabasePath"`

	// Worker identity, used in the export title and filename.
	FirstName      string `yaml:"FirstName"`
	LastName       string `yaml:"LastName"`
	SecondLastName string `yaml:"SecondLastName"`

	// StandardDailyHours is the global overtime threshold. Positions can
	// carry their own override.
	StandardDailyHours float64 `yaml:"StandardDailyHours"`

	// Legacy global night interval, used as the default for the built-in
	// nocturnal breakdown.
	NightStart string `yaml:"NightStart"`
	NightEnd   string `yaml:"NightEnd"`
}

func Load() (*Config, error) {
	configPath := getConfigPath()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return getDefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Apply defaults for missing values
	if cfg.DatabasePath == "" {
		home, _ := os.UserHomeDir()
		cfg.DatabasePath = filepath.Join(home, ".desglosa", "data.db")
	}
	if cfg.StandardDailyHours == 0 {
		cfg.StandardDailyHours = 8
	}
	if cfg.NightStart == "" {
		cfg.NightStart = "22:00"
	}
	if cfg.NightEnd == "" {
		cfg.NightEnd = "06:00"
	}

	// Expand ~ in database path
	if strings.HasPrefix(cfg.DatabasePath, "~/") {
		home, _ := os.UserHomeDir()
		cfg.DatabasePath = filepath.Join(home, cfg.DatabasePath[2:])
	}

	return &cfg, nil
}

func Save(cfg *Config) error {
	configPath := getConfigPath()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0644)
}

func getConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".desglosa.yaml")
}

func getDefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		DatabasePath:       filepath.Join(home, ".desglosa", "data.db"),
		StandardDailyHours: 8,
		NightStart:         "22:00",
		NightEnd:           "06:00",
	}
}

// WorkerName joins the configured name parts, skipping empty ones.
func (c *Config) WorkerName() string {
	parts := []string{}
	for _, p := range []string{c.FirstName, c.LastName, c.SecondLastName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
