package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	LogDir   string `toml:"log_dir"`
	StateDir string `toml:"state_dir"`
}

// Tools contains the external executables mediaconv drives.
type Tools struct {
	// FFmpegBinary backs the native export engine.
	FFmpegBinary string `toml:"ffmpeg_binary"`
	// ExternalBinary is the command-line transcoder used for legacy sources.
	ExternalBinary string `toml:"external_binary"`
}

// Notifications contains the completion side-channel collaborators. Each is
// fire-and-forget; failures never alter a conversion outcome.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	RevealCommand  string `toml:"reveal_command"`
	SoundCommand   string `toml:"sound_command"`
	NotifyCommand  string `toml:"notify_command"`
	Reveal         bool   `toml:"reveal"`
	Sound          bool   `toml:"sound"`
	Push           bool   `toml:"push"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Watch contains configuration for directory watch mode.
type Watch struct {
	// SettleSeconds delays submission after a file appears so partially
	// written files are not picked up mid-copy.
	SettleSeconds int `toml:"settle_seconds"`
}

// Config encapsulates all ambient configuration values for mediaconv.
type Config struct {
	Paths         Paths         `toml:"paths"`
	Tools         Tools         `toml:"tools"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
	Watch         Watch         `toml:"watch"`
}

// DefaultConfigPath returns the absolute path of the default config location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/mediaconv/config.toml")
}

// Load locates, parses, and validates a configuration file. Returns the
// config, the resolved path, and whether a file actually existed there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	var err error
	if c.Paths.LogDir, err = expandPath(defaultString(c.Paths.LogDir, defaultLogDir)); err != nil {
		return err
	}
	if c.Paths.StateDir, err = expandPath(defaultString(c.Paths.StateDir, defaultStateDir)); err != nil {
		return err
	}
	c.Tools.FFmpegBinary = defaultString(c.Tools.FFmpegBinary, defaultFFmpegBinary)
	c.Tools.ExternalBinary = defaultString(c.Tools.ExternalBinary, defaultExternalBinary)
	c.Logging.Format = strings.ToLower(defaultString(c.Logging.Format, defaultLogFormat))
	c.Logging.Level = strings.ToLower(defaultString(c.Logging.Level, defaultLogLevel))
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
	if c.Watch.SettleSeconds <= 0 {
		c.Watch.SettleSeconds = defaultWatchSettleSeconds
	}
	return nil
}

// EnsureDirectories creates the directories mediaconv writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir, c.Paths.StateDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// HistoryDBPath returns the location of the conversion history database.
func (c *Config) HistoryDBPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// LockFilePath returns the process-wide conversion lock location.
func (c *Config) LockFilePath() string {
	return filepath.Join(c.Paths.StateDir, "mediaconv.lock")
}

// ExpandPath resolves ~ and relative segments into an absolute path.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
