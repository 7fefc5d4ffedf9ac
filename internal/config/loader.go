package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/candy.yaml
var defaultCandyYAML []byte

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultCandyYAML
}

// Load reads the configuration.
// Search order: customPath -> ~/.candyrush/configs/candy.yaml ->
// ./configs/candy.yaml -> embedded default -> DefaultCandyConfig.
// An explicit customPath that cannot be read or parsed is an error; the
// other locations are skipped silently when missing or malformed.
func Load(customPath string) (CandyConfig, error) {
	if customPath != "" {
		cfg, err := readFile(customPath)
		if err != nil {
			return cfg, err
		}
		return cfg, cfg.Validate()
	}

	for _, path := range []string{userConfigPath("candy.yaml"), filepath.Join("configs", "candy.yaml")} {
		if path == "" {
			continue
		}
		if cfg, err := readFile(path); err == nil && cfg.Validate() == nil {
			return cfg, nil
		}
	}

	if cfg, err := parse(defaultCandyYAML); err == nil && cfg.Validate() == nil {
		return cfg, nil
	}
	return DefaultCandyConfig(), nil
}

func readFile(path string) (CandyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CandyConfig{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := parse(data)
	if err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// parse decodes YAML over the built-in defaults so partial files work.
func parse(data []byte) (CandyConfig, error) {
	cfg := DefaultCandyConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// userConfigPath returns ~/.candyrush/configs/<filename>, or "" without a home dir.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".candyrush", "configs", filename)
}
