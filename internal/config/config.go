package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

const (
	DefaultConfigPath = "config/config.yaml"
	DefaultMaxUpload  = 16 * 1024 * 1024
)

type Config struct {
	Server struct {
		Host      string `yaml:"host"`
		Port      int    `yaml:"port" validate:"min=1,max=65535"`
		Env       string `yaml:"env" validate:"oneof=development production test"`
		SecretKey string `yaml:"secret_key" validate:"required"`
	} `yaml:"server"`

	Static struct {
		Dir       string `yaml:"dir" validate:"required"`
		URLPrefix string `yaml:"url_prefix" validate:"required,startswith=/"`
	} `yaml:"static"`

	Storage struct {
		Type      string `yaml:"type" validate:"oneof=local s3"` // local, s3
		BasePath  string `yaml:"base_path"`                      // upload directory for local storage
		BaseURL   string `yaml:"base_url"`                       // public URL prefix of stored files
		Bucket    string `yaml:"bucket" validate:"required_if=Type s3"`
		Region    string `yaml:"region"`
		AccessKey string `yaml:"access_key"`
		SecretKey string `yaml:"secret_key"`
		Endpoint  string `yaml:"endpoint"` // custom S3-compatible endpoint
	} `yaml:"storage"`

	Upload struct {
		MaxSize           int64    `yaml:"max_size" validate:"gt=0"`
		AllowedExtensions []string `yaml:"allowed_extensions" validate:"min=1,dive,required"`
	} `yaml:"upload"`

	Model struct {
		Path           string `yaml:"path" validate:"required"`
		RuntimeLibrary string `yaml:"runtime_library"` // onnxruntime shared library, empty = platform default
		InputName      string `yaml:"input_name" validate:"required"`
		OutputName     string `yaml:"output_name" validate:"required"`
	} `yaml:"model"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var cfg Config

	cfg.Server.Port = 8080
	cfg.Server.Env = "development"
	cfg.Server.SecretKey = "secret key"

	cfg.Static.Dir = "static"
	cfg.Static.URLPrefix = "/static"

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "static/uploads"
	cfg.Storage.BaseURL = "/static/uploads"

	cfg.Upload.MaxSize = DefaultMaxUpload
	cfg.Upload.AllowedExtensions = []string{"png", "jpg", "jpeg", "gif"}

	cfg.Model.Path = "models/model.onnx"
	cfg.Model.InputName = "input"
	cfg.Model.OutputName = "output"

	return &cfg
}

// Load reads the YAML file named by CONFIG_PATH (or the default path) over
// the defaults, applies environment overrides and validates the result.
// A missing file is not an error.
func Load() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = DefaultConfigPath
	}
	return LoadFile(path)
}

func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file at %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to open config file at %s: %w", path, err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if env := os.Getenv("SERVER_ENV"); env != "" {
		cfg.Server.Env = env
	}

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = os.Getenv("PORT")
	}
	if portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid port %q: %w", portStr, err)
		}
		cfg.Server.Port = port
	}

	if modelPath := os.Getenv("MODEL_PATH"); modelPath != "" {
		cfg.Model.Path = modelPath
	}
	if secret := os.Getenv("SECRET_KEY"); secret != "" {
		cfg.Server.SecretKey = secret
	}

	return nil
}

// Address is the listen address for the HTTP server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
