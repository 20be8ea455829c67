package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/threatwatch/internal/logging"
	"github.com/five82/threatwatch/internal/signature"
)

// Config holds the resolved threatwatch settings.
type Config struct {
	LogFile      string
	PollInterval time.Duration
	StartAtEnd   bool
	Watch        bool
	LogLevel     string
	LogFormat    string
	LogPath      string
	Signatures   signature.Set
}

const (
	defaultConfigPath  = "~/.config/threatwatch/config.toml"
	defaultLogFile     = "/var/log/system.log"
	defaultLogPath     = "~/.local/state/threatwatch/threatwatch.log"
	defaultLogLevel    = "info"
	defaultLogFormat   = "console"
	defaultPollSeconds = 2
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogFile:      defaultLogFile,
		PollInterval: defaultPollSeconds * time.Second,
		Watch:        true,
		LogLevel:     defaultLogLevel,
		LogFormat:    defaultLogFormat,
		LogPath:      mustExpand(defaultLogPath),
		Signatures:   signature.Default(),
	}
}

// DefaultPath returns the config path used when none is given.
func DefaultPath() string {
	return defaultConfigPath
}

type rawConfig struct {
	LogFile     string          `toml:"log_file"`
	PollSeconds *float64        `toml:"poll_seconds"`
	StartAtEnd  bool            `toml:"start_at_end"`
	Watch       *bool           `toml:"watch"`
	LogLevel    string          `toml:"log_level"`
	LogFormat   string          `toml:"log_format"`
	LogPath     string          `toml:"log_path"`
	Signatures  *[]rawSignature `toml:"signatures"`
}

type rawSignature struct {
	Keyword  string `toml:"keyword"`
	Category string `toml:"category"`
}

// Load locates and parses the config, falling back to defaults when the file
// is missing. Invalid signatures fail with an error wrapping
// signature.ErrInvalid.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if raw.PollSeconds != nil {
		if *raw.PollSeconds <= 0 {
			return Config{}, fmt.Errorf("validate config: poll_seconds must be positive, got %v", *raw.PollSeconds)
		}
		cfg.PollInterval = time.Duration(*raw.PollSeconds * float64(time.Second))
	}
	cfg.StartAtEnd = raw.StartAtEnd
	if raw.Watch != nil {
		cfg.Watch = *raw.Watch
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		if !logging.ValidLevel(v) {
			return Config{}, fmt.Errorf("validate config: unknown log_level %q", v)
		}
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.LogFormat); v != "" {
		v = strings.ToLower(v)
		if v != "console" && v != "json" {
			return Config{}, fmt.Errorf("validate config: unknown log_format %q", v)
		}
		cfg.LogFormat = v
	}
	if v := strings.TrimSpace(raw.LogPath); v != "" {
		cfg.LogPath = mustExpand(v)
	}

	if raw.Signatures != nil {
		sigs := make(signature.Set, 0, len(*raw.Signatures))
		for _, s := range *raw.Signatures {
			sigs = append(sigs, signature.Signature{Keyword: s.Keyword, Category: strings.TrimSpace(s.Category)})
		}
		if err := sigs.Validate(); err != nil {
			return Config{}, fmt.Errorf("validate config: %w", err)
		}
		cfg.Signatures = sigs
	}

	return cfg, nil
}

// ExpandPath resolves "~" and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
