package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	defaultSSHPort      = 22
	defaultPortRangeMin = 1024
	defaultPortRangeMax = 65535
	defaultLogLevel     = "info"
	defaultLogMaxSizeMB = 10
	defaultLogMaxFiles  = 5
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	SSH     SSHConfig     `toml:"ssh"`
	Ports   PortsConfig   `toml:"ports"`
	Logging LoggingConfig `toml:"logging"`
}

type SSHConfig struct {
	Port int `toml:"port"`
}

type PortsConfig struct {
	Min int `toml:"min"`
	Max int `toml:"max"`
}

type LoggingConfig struct {
	Level     string `toml:"level"`
	File      string `toml:"file"`
	MaxSizeMB int    `toml:"max_size_mb"`
	MaxFiles  int    `toml:"max_files"`
	Console   bool   `toml:"console"`
}

type LoadOptions struct {
	ConfigPath string
	Env        map[string]string
}

func DefaultConfig() Config {
	return Config{
		SSH: SSHConfig{
			Port: defaultSSHPort,
		},
		Ports: PortsConfig{
			Min: defaultPortRangeMin,
			Max: defaultPortRangeMax,
		},
		Logging: LoggingConfig{
			Level:     defaultLogLevel,
			File:      "",
			MaxSizeMB: defaultLogMaxSizeMB,
			MaxFiles:  defaultLogMaxFiles,
			Console:   false,
		},
	}
}

// Load layers configuration: defaults, then the TOML file, then a .env
// beside it, then GOUTIL_* environment variables. Later layers win.
func Load(opts LoadOptions) (Config, error) {
	cfg := DefaultConfig()

	configPath, err := resolveConfigPath(opts)
	if err != nil {
		return Config{}, fmt.Errorf("resolve config path: %w", err)
	}
	if err := loadAndApplyFile(configPath, &cfg); err != nil {
		return Config{}, err
	}

	// Hosts and key paths tend to live in a .env next to the config so
	// they stay out of shell profiles. Missing file is fine.
	if configPath != "" {
		dotenv := filepath.Join(filepath.Dir(configPath), ".env")
		if _, statErr := os.Stat(dotenv); statErr == nil {
			if err := godotenv.Load(dotenv); err != nil {
				return Config{}, fmt.Errorf("%w: load %q: %v", ErrInvalidConfig, dotenv, err)
			}
		}
	}

	if err := applyEnvOverrides(&cfg, opts); err != nil {
		return Config{}, err
	}
	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type rawConfig struct {
	SSH     *rawSSH     `toml:"ssh"`
	Ports   *rawPorts   `toml:"ports"`
	Logging *rawLogging `toml:"logging"`
}

type rawSSH struct {
	Port *int `toml:"port"`
}

type rawPorts struct {
	Min *int `toml:"min"`
	Max *int `toml:"max"`
}

type rawLogging struct {
	Level     *string `toml:"level"`
	File      *string `toml:"file"`
	MaxSizeMB *int    `toml:"max_size_mb"`
	MaxFiles  *int    `toml:"max_files"`
	Console   *bool   `toml:"console"`
}

func loadAndApplyFile(path string, cfg *Config) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file %q: %w", path, err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: parse TOML file %q: %v", ErrInvalidConfig, path, err)
	}

	if raw.SSH != nil {
		setInt(raw.SSH.Port, &cfg.SSH.Port)
	}
	if raw.Ports != nil {
		setInt(raw.Ports.Min, &cfg.Ports.Min)
		setInt(raw.Ports.Max, &cfg.Ports.Max)
	}
	if raw.Logging != nil {
		setString(raw.Logging.Level, &cfg.Logging.Level)
		setString(raw.Logging.File, &cfg.Logging.File)
		setInt(raw.Logging.MaxSizeMB, &cfg.Logging.MaxSizeMB)
		setInt(raw.Logging.MaxFiles, &cfg.Logging.MaxFiles)
		setBool(raw.Logging.Console, &cfg.Logging.Console)
	}
	return nil
}

func applyEnvOverrides(cfg *Config, opts LoadOptions) error {
	if value, ok := lookupEnv(opts, "GOUTIL_SSH_PORT"); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: parse GOUTIL_SSH_PORT: %v", ErrInvalidConfig, err)
		}
		cfg.SSH.Port = parsed
	}
	if value, ok := lookupEnv(opts, "GOUTIL_PORTS_MIN"); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: parse GOUTIL_PORTS_MIN: %v", ErrInvalidConfig, err)
		}
		cfg.Ports.Min = parsed
	}
	if value, ok := lookupEnv(opts, "GOUTIL_PORTS_MAX"); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: parse GOUTIL_PORTS_MAX: %v", ErrInvalidConfig, err)
		}
		cfg.Ports.Max = parsed
	}
	if value, ok := lookupEnv(opts, "GOUTIL_LOG_LEVEL"); ok {
		cfg.Logging.Level = value
	}
	if value, ok := lookupEnv(opts, "GOUTIL_LOG_FILE"); ok {
		cfg.Logging.File = value
	}
	if value, ok := lookupEnv(opts, "GOUTIL_LOG_MAX_SIZE_MB"); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: parse GOUTIL_LOG_MAX_SIZE_MB: %v", ErrInvalidConfig, err)
		}
		cfg.Logging.MaxSizeMB = parsed
	}
	if value, ok := lookupEnv(opts, "GOUTIL_LOG_MAX_FILES"); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: parse GOUTIL_LOG_MAX_FILES: %v", ErrInvalidConfig, err)
		}
		cfg.Logging.MaxFiles = parsed
	}
	if value, ok := lookupEnv(opts, "GOUTIL_LOG_CONSOLE"); ok {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: parse GOUTIL_LOG_CONSOLE: %v", ErrInvalidConfig, err)
		}
		cfg.Logging.Console = parsed
	}
	return nil
}

func validate(cfg Config) error {
	if cfg.SSH.Port <= 0 || cfg.SSH.Port > 65535 {
		return fmt.Errorf("%w: ssh.port must be in (0, 65535]", ErrInvalidConfig)
	}
	if cfg.Ports.Min <= 0 || cfg.Ports.Max > 65536 || cfg.Ports.Min >= cfg.Ports.Max {
		return fmt.Errorf("%w: ports range [%d, %d) is not a valid port range", ErrInvalidConfig, cfg.Ports.Min, cfg.Ports.Max)
	}
	if cfg.Logging.MaxSizeMB <= 0 || cfg.Logging.MaxFiles < 0 {
		return fmt.Errorf("%w: logging rotation values must be positive", ErrInvalidConfig)
	}
	return nil
}

func setString(raw *string, target *string) {
	if raw != nil {
		*target = *raw
	}
}

func setInt(raw *int, target *int) {
	if raw != nil {
		*target = *raw
	}
}

func setBool(raw *bool, target *bool) {
	if raw != nil {
		*target = *raw
	}
}

func resolveConfigPath(opts LoadOptions) (string, error) {
	if opts.ConfigPath != "" {
		return opts.ConfigPath, nil
	}
	if value, ok := lookupEnv(opts, "GOUTIL_CONFIG_PATH"); ok {
		return value, nil
	}
	return defaultConfigPath()
}

func lookupEnv(opts LoadOptions, key string) (string, bool) {
	if opts.Env != nil {
		if value, ok := opts.Env[key]; ok {
			return value, true
		}
	}
	return os.LookupEnv(key)
}

func defaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}

	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Application Support", "goutil", "config.toml"), nil
	}

	configHome := filepath.Join(home, ".config")
	if xdgConfigHome, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok && xdgConfigHome != "" {
		configHome = xdgConfigHome
	}
	return filepath.Join(configHome, "goutil", "config.toml"), nil
}
