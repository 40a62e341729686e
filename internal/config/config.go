package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the hosted BookStore backend.
const DefaultBaseURL = "https://react-nativ-backend.vercel.app/api/v1"

// ConfigPath is the default config file location, relative to the working
// directory.
const ConfigPath = "bookstore.yaml"

// FileConfig represents configuration loaded from YAML with environment
// overrides.
type FileConfig struct {
	BaseURL          string `yaml:"baseURL"`
	LogLevel         string `yaml:"logLevel"`
	RequestTimeout   string `yaml:"requestTimeout"`
	SessionBackend   string `yaml:"sessionBackend"`
	SessionPath      string `yaml:"sessionPath"`
	RedisAddr        string `yaml:"redisAddr"`
	RedisPassword    string `yaml:"redisPassword"`
	MaxUploadBytes   int64  `yaml:"maxUploadBytes"`
	ImageMaxWidth    int    `yaml:"imageMaxWidth"`
	ImageJPEGQuality int    `yaml:"imageJpegQuality"`
}

// Load reads config from path (defaults to bookstore.yaml). A missing file is
// not an error: the client runs on defaults plus environment overrides, since
// most installs never need a config file at all.
func Load(path string) (FileConfig, error) {
	_ = godotenv.Load()

	cfg := FileConfig{
		BaseURL:          DefaultBaseURL,
		LogLevel:         "info",
		RequestTimeout:   "15s",
		SessionBackend:   "file",
		SessionPath:      defaultSessionPath(),
		MaxUploadBytes:   10 << 20,
		ImageMaxWidth:    1080,
		ImageJPEGQuality: 85,
	}
	if path == "" {
		path = ConfigPath
	}
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if v := os.Getenv("BOOKSTORE_BASE_URL"); v != "" {
		cfg.BaseURL = strings.TrimSpace(v)
	}
	if v := os.Getenv("BOOKSTORE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.TrimSpace(v)
	}
	if v := os.Getenv("BOOKSTORE_REQUEST_TIMEOUT"); v != "" {
		cfg.RequestTimeout = strings.TrimSpace(v)
	}
	if v := os.Getenv("BOOKSTORE_SESSION_BACKEND"); v != "" {
		cfg.SessionBackend = strings.TrimSpace(v)
	}
	if v := os.Getenv("BOOKSTORE_SESSION_PATH"); v != "" {
		cfg.SessionPath = strings.TrimSpace(v)
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("BOOKSTORE_MAX_UPLOAD_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.MaxUploadBytes = n
		}
	}
	if v := os.Getenv("BOOKSTORE_IMAGE_MAX_WIDTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ImageMaxWidth = n
		}
	}
	if v := os.Getenv("BOOKSTORE_IMAGE_JPEG_QUALITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ImageJPEGQuality = n
		}
	}

	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validateConfig(cfg FileConfig) error {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return errors.New("config: baseURL is required (set in bookstore.yaml or BOOKSTORE_BASE_URL)")
	}
	switch cfg.SessionBackend {
	case "file":
		if strings.TrimSpace(cfg.SessionPath) == "" {
			return errors.New("config: sessionPath is required for the file session backend")
		}
	case "redis":
		if strings.TrimSpace(cfg.RedisAddr) == "" {
			return errors.New("config: redisAddr is required for the redis session backend")
		}
	default:
		return fmt.Errorf("config: unknown sessionBackend %q (want file or redis)", cfg.SessionBackend)
	}
	if cfg.MaxUploadBytes <= 0 {
		return errors.New("config: maxUploadBytes must be > 0")
	}
	if cfg.ImageMaxWidth <= 0 {
		return errors.New("config: imageMaxWidth must be > 0")
	}
	if cfg.ImageJPEGQuality < 1 || cfg.ImageJPEGQuality > 100 {
		return errors.New("config: imageJpegQuality must be within 1..100")
	}
	return nil
}

// ParseRequestTimeout parses the HTTP client timeout duration string.
func ParseRequestTimeout(timeoutStr string) (time.Duration, error) {
	if timeoutStr == "" {
		return 15 * time.Second, nil
	}
	dur, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return 0, fmt.Errorf("invalid requestTimeout duration: %w", err)
	}
	return dur, nil
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "session.json"
	}
	return filepath.Join(dir, "bookstore", "session.json")
}
