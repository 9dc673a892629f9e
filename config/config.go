// Package config - налаштування shrdlite: YAML-файл плюс змінні оточення.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/youryharchenko/go-shrdlite/logic"
)

// DefaultPath - файл конфігурації за замовчуванням.
const DefaultPath = "shrdlite.yaml"

// Config - усі налаштування.
type Config struct {
	Planner PlannerConfig `yaml:"planner"`
	World   WorldConfig   `yaml:"world"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Lab     LabConfig     `yaml:"lab"`
}

// PlannerConfig - алгоритм пошуку і його бюджет.
type PlannerConfig struct {
	Algorithm   string `yaml:"algorithm"` // astar, bfs
	Heuristic   string `yaml:"heuristic"` // obstruction, distance, none
	Timeout     string `yaml:"timeout"`
	MaxExpanded int    `yaml:"max_expanded"` // 0 - без обмеження
}

// WorldConfig - який світ завантажити: вбудований за назвою або з файлу.
type WorldConfig struct {
	Name string `yaml:"name"`
	File string `yaml:"file,omitempty"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	JSON  bool   `yaml:"json"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr,omitempty"` // порожньо - не слухати
}

// LabConfig - графічна лабораторія.
type LabConfig struct {
	Snapshot string `yaml:"snapshot"`
	Tick     string `yaml:"tick"`
}

// Default повертає конфігурацію за замовчуванням.
func Default() *Config {
	return &Config{
		Planner: PlannerConfig{
			Algorithm: "astar",
			Heuristic: string(logic.Obstruction),
			Timeout:   "5s",
		},
		World: WorldConfig{
			Name: "small",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Lab: LabConfig{
			Snapshot: "blocks.snapshot",
			Tick:     "300ms",
		},
	}
}

// Load читає YAML. Якщо файлу немає - беремо значення за замовчуванням.
// Змінні оточення застосовуються в обох випадках.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save записує конфігурацію у YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SHRDLITE_WORLD"); v != "" {
		c.World.Name = v
		c.World.File = ""
	}
	if v := os.Getenv("SHRDLITE_TIMEOUT"); v != "" {
		c.Planner.Timeout = v
	}
	if v := os.Getenv("SHRDLITE_ALGORITHM"); v != "" {
		c.Planner.Algorithm = v
	}
	if v := os.Getenv("SHRDLITE_HEURISTIC"); v != "" {
		c.Planner.Heuristic = v
	}
	if v := os.Getenv("SHRDLITE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate перевіряє значення, які інакше впали б глибоко в планувальнику.
func (c *Config) Validate() error {
	switch c.Planner.Algorithm {
	case "astar", "bfs":
	default:
		return fmt.Errorf("unknown planner algorithm %q (want astar or bfs)", c.Planner.Algorithm)
	}
	if _, err := logic.ParseHeuristic(c.Planner.Heuristic); err != nil {
		return err
	}
	if d, err := time.ParseDuration(c.Planner.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid planner timeout %q", c.Planner.Timeout)
	}
	if c.Planner.MaxExpanded < 0 {
		return fmt.Errorf("planner max_expanded must not be negative")
	}
	if c.World.Name == "" && c.World.File == "" {
		return fmt.Errorf("no world configured")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	if _, err := time.ParseDuration(c.Lab.Tick); err != nil {
		return fmt.Errorf("invalid lab tick %q", c.Lab.Tick)
	}
	return nil
}

// GetTimeout повертає бюджет пошуку як тривалість.
func (c *Config) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Planner.Timeout)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

// GetTick повертає період кроку лабораторії.
func (c *Config) GetTick() time.Duration {
	d, err := time.ParseDuration(c.Lab.Tick)
	if err != nil || d <= 0 {
		return 300 * time.Millisecond
	}
	return d
}

// GetHeuristic повертає евристику; невідома назва - Obstruction.
func (c *Config) GetHeuristic() logic.Heuristic {
	h, err := logic.ParseHeuristic(c.Planner.Heuristic)
	if err != nil {
		return logic.Obstruction
	}
	return h
}
