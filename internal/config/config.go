package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"subgen/internal/model"
)

// Config holds all application configuration.
type Config struct {
	DataDir  string       `yaml:"data_dir"`
	Model    ModelConfig  `yaml:"model"`
	Tools    ToolsConfig  `yaml:"tools"`
	OpenAI   OpenAIConfig `yaml:"openai"`
	Language string       `yaml:"language"`
}

// ModelConfig selects the recognition model variant.
type ModelConfig struct {
	Kind         string `yaml:"kind"`
	Quantization string `yaml:"quantization"`
}

// ToolsConfig overrides external tool locations. Empty values fall back
// to environment variables and PATH lookup.
type ToolsConfig struct {
	FFmpeg  string `yaml:"ffmpeg"`
	FFprobe string `yaml:"ffprobe"`
	Whisper string `yaml:"whisper"`
}

// OpenAIConfig enables the remote transcription engine when an API key is set.
type OpenAIConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// DefaultConfigDir returns the default config directory path.
func DefaultConfigDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "subgen")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		DataDir: DefaultConfigDir(),
		Model: ModelConfig{
			Kind:         string(model.KindBase),
			Quantization: string(model.QuantF16),
		},
		OpenAI: OpenAIConfig{
			Model: "whisper-1",
		},
		Language: "auto",
	}
}

// Load reads and parses a YAML config file. Missing fields are filled
// with defaults. A missing file yields the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.DataDir = expandTilde(cfg.DataDir)
	return cfg, nil
}

// Validate checks the config for invalid values.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if _, err := model.ParseIdentity(c.Model.Kind, c.Model.Quantization); err != nil {
		return err
	}
	if c.Language == "" {
		return fmt.Errorf("language must not be empty (use \"auto\" for detection)")
	}
	return nil
}

// ModelsDir returns the model cache directory under the data dir.
func (c *Config) ModelsDir() string {
	return filepath.Join(c.DataDir, "models")
}

// Identity returns the configured model identity.
func (c *Config) Identity() (model.Identity, error) {
	return model.ParseIdentity(c.Model.Kind, c.Model.Quantization)
}

func expandTilde(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
