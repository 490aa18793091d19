package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	InputDir       string `yaml:"inputDir"`
	Size           int    `yaml:"size"`
	FPS            int    `yaml:"fps"`
	AnimatedMarker string `yaml:"animatedMarker"`
	LoadSettleMS   int    `yaml:"loadSettleMs"`
	SeekSettleMS   int    `yaml:"seekSettleMs"`
	EncodeWorkers  int    `yaml:"encodeWorkers"`
	ManifestPath   string `yaml:"manifestPath"`
	ShowStats      bool   `yaml:"showStats"`
	BuildVersion   string `yaml:"-"`
}

// Default возвращает параметры, совпадающие с вшитыми константами:
// иконки 128x128 при 20 FPS из input/icons, запуск без аргументов работает.
func Default() *Config {
	return &Config{
		InputDir:       "input/icons",
		Size:           128,
		FPS:            20,
		AnimatedMarker: "-animated",
		LoadSettleMS:   300,
		SeekSettleMS:   30,
		EncodeWorkers:  2,
	}
}

// Load читает YAML-файл поверх значений по умолчанию.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
