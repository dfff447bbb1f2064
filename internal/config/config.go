// Package config loads aquabalance settings from YAML, .env and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/TobiasBrasser/aquabalance/internal/calculator"
)

type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Formula FormulaConfig `yaml:"formula"`
	Tracker TrackerConfig `yaml:"tracker"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type StorageConfig struct {
	// Backend is one of sqlite, redis, memory.
	Backend string      `yaml:"backend" validate:"oneof=sqlite redis memory"`
	Path    string      `yaml:"path" validate:"required_if=Backend sqlite"`
	Redis   RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Address   string `yaml:"address"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db" validate:"gte=0"`
	PoolSize  int    `yaml:"pool_size" validate:"gte=0"`
	KeyPrefix string `yaml:"key_prefix"`
}

type ServerConfig struct {
	Port int `yaml:"port" validate:"gt=0,lte=65535"`
}

type LoggingConfig struct {
	// Level is debug, info, warn or error. Empty defers to LOG_LEVEL.
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// FormulaConfig mirrors calculator.Formula; see there for the meaning of
// each coefficient.
type FormulaConfig struct {
	MLPerKg                 float64   `yaml:"ml_per_kg" validate:"gt=0"`
	BaseCapLiters           float64   `yaml:"base_cap_liters" validate:"gt=0"`
	ActivityCapLiters       float64   `yaml:"activity_cap_liters" validate:"gte=0"`
	ClimateCapLiters        float64   `yaml:"climate_cap_liters" validate:"gte=0"`
	MaleBonusLiters         float64   `yaml:"male_bonus_liters" validate:"gte=0"`
	MinWeightKg             float64   `yaml:"min_weight_kg" validate:"gt=0"`
	MaxWeightKg             float64   `yaml:"max_weight_kg" validate:"gtfield=MinWeightKg"`
	ActivityLevels          []float64 `yaml:"activity_levels" validate:"min=1,dive,gte=0"`
	Climates                []float64 `yaml:"climates" validate:"min=1,dive,gte=0"`
	RecommendedMaleLiters   float64   `yaml:"recommended_male_liters" validate:"gte=0"`
	RecommendedFemaleLiters float64   `yaml:"recommended_female_liters" validate:"gte=0"`
}

type TrackerConfig struct {
	// DefaultCapacityLiters is used until a target has been computed.
	DefaultCapacityLiters float64 `yaml:"default_capacity_liters" validate:"gt=0"`

	// ResetOnTargetChange zeroes the logged amount whenever a new target
	// is saved.
	ResetOnTargetChange bool `yaml:"reset_on_target_change"`

	// SummaryDays is the window of the per-day history summary.
	SummaryDays int `yaml:"summary_days" validate:"gt=0,lte=366"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path" validate:"required_if=Enabled true"`
}

// Default returns a configuration that works without any file.
func Default() *Config {
	f := calculator.DefaultFormula()
	return &Config{
		Storage: StorageConfig{
			Backend: "sqlite",
			Path:    defaultDBPath(),
			Redis: RedisConfig{
				Address:   "localhost:6379",
				PoolSize:  10,
				KeyPrefix: "aquabalance:",
			},
		},
		Server:  ServerConfig{Port: 8080},
		Logging: LoggingConfig{},
		Formula: FormulaConfig{
			MLPerKg:                 f.MLPerKg,
			BaseCapLiters:           f.BaseCapLiters,
			ActivityCapLiters:       f.ActivityCapLiters,
			ClimateCapLiters:        f.ClimateCapLiters,
			MaleBonusLiters:         f.MaleBonusLiters,
			MinWeightKg:             f.MinWeightKg,
			MaxWeightKg:             f.MaxWeightKg,
			ActivityLevels:          f.ActivityLevels,
			Climates:                f.Climates,
			RecommendedMaleLiters:   f.RecommendedMaleLiters,
			RecommendedFemaleLiters: f.RecommendedFemaleLiters,
		},
		Tracker: TrackerConfig{
			DefaultCapacityLiters: 2.5,
			ResetOnTargetChange:   true,
			SummaryDays:           7,
		},
		Metrics: MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

// Load reads configPath on top of Default. A .env file in the working
// directory is loaded first when present, and ${VAR} references in the YAML
// are expanded from the environment. An empty configPath yields the
// defaults with AQUABALANCE_DB_PATH and AQUABALANCE_STORAGE applied.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		expanded := []byte(os.ExpandEnv(string(data)))
		if err := yaml.Unmarshal(expanded, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", configPath, err)
		}
	}

	if v := os.Getenv("AQUABALANCE_STORAGE"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("AQUABALANCE_DB_PATH"); v != "" {
		cfg.Storage.Path = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field ranges and cross-field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// CalculatorFormula converts the formula section for the estimator.
func (c *Config) CalculatorFormula() calculator.Formula {
	f := c.Formula
	return calculator.Formula{
		MLPerKg:                 f.MLPerKg,
		BaseCapLiters:           f.BaseCapLiters,
		ActivityCapLiters:       f.ActivityCapLiters,
		ClimateCapLiters:        f.ClimateCapLiters,
		MaleBonusLiters:         f.MaleBonusLiters,
		MinWeightKg:             f.MinWeightKg,
		MaxWeightKg:             f.MaxWeightKg,
		ActivityLevels:          append([]float64(nil), f.ActivityLevels...),
		Climates:                append([]float64(nil), f.Climates...),
		RecommendedMaleLiters:   f.RecommendedMaleLiters,
		RecommendedFemaleLiters: f.RecommendedFemaleLiters,
	}
}

func defaultDBPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "aquabalance", "aquabalance.db")
	}
	return filepath.Join(".", "data", "aquabalance.db")
}
