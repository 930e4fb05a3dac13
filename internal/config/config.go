package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

type Storage struct {
	Backend string `mapstructure:"backend" yaml:"backend"`
	DBPath  string `mapstructure:"db_path" yaml:"db_path"`
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`
	Key     string `mapstructure:"key" yaml:"key"`
}

type Config struct {
	Storage              Storage `mapstructure:"storage" yaml:"storage"`
	IDFormat             string  `mapstructure:"id_format" yaml:"id_format"`
	LogLevel             string  `mapstructure:"log_level" yaml:"log_level"`
	LogFile              string  `mapstructure:"log_file" yaml:"log_file"`
	ExportDir            string  `mapstructure:"export_dir" yaml:"export_dir"`
	DesktopNotifications bool    `mapstructure:"desktop_notifications" yaml:"desktop_notifications"`
}

func Default() Config {
	home := HomeDir()
	return Config{
		Storage: Storage{
			Backend: BackendSQLite,
			DBPath:  filepath.Join(home, "tasklist.db"),
			DataDir: filepath.Join(home, "data"),
			Key:     "taskListApp_tasks",
		},
		IDFormat:  "ulid",
		LogLevel:  "info",
		LogFile:   filepath.Join(home, "tasklist.log"),
		ExportDir: ".",
	}
}

// HomeDir is where tasklist keeps its config, database and logs.
func HomeDir() string {
	if v := strings.TrimSpace(os.Getenv("TASKLIST_HOME")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tasklist"
	}
	return filepath.Join(home, ".tasklist")
}

func DefaultPath() string {
	return filepath.Join(HomeDir(), "config.yaml")
}

// Load layers defaults, the YAML file at path and the environment. A missing
// file at the default location is not an error; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultPath()
	}
	if err := loadFile(path, &cfg); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return FromEnv(cfg), nil
		}
		return cfg, fmt.Errorf("config: load %s: %w", path, err)
	}
	return FromEnv(cfg), nil
}

func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	return v.Unmarshal(cfg)
}

func FromEnv(base Config) Config {
	cfg := base
	if v, ok := getEnvString("TASKLIST_BACKEND"); ok {
		cfg.Storage.Backend = strings.ToLower(v)
	}
	if v, ok := getEnvString("TASKLIST_DB_PATH"); ok {
		cfg.Storage.DBPath = v
	}
	if v, ok := getEnvString("TASKLIST_DATA_DIR"); ok {
		cfg.Storage.DataDir = v
	}
	if v, ok := getEnvString("TASKLIST_STORAGE_KEY"); ok {
		cfg.Storage.Key = v
	}
	if v, ok := getEnvString("TASKLIST_ID_FORMAT"); ok {
		cfg.IDFormat = strings.ToLower(v)
	}
	if v, ok := getEnvString("TASKLIST_LOG_LEVEL"); ok {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := getEnvString("TASKLIST_LOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v, ok := getEnvString("TASKLIST_EXPORT_DIR"); ok {
		cfg.ExportDir = v
	}
	if v, ok := getEnvBool("TASKLIST_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	return cfg
}

func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite:
		if strings.TrimSpace(c.Storage.DBPath) == "" {
			return errors.New("config: storage.db_path is required for the sqlite backend")
		}
	case BackendFile:
		if strings.TrimSpace(c.Storage.DataDir) == "" {
			return errors.New("config: storage.data_dir is required for the file backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.Storage.Backend)
	}
	switch c.IDFormat {
	case "ulid", "uuid":
	default:
		return fmt.Errorf("config: unknown id_format %q", c.IDFormat)
	}
	return nil
}

// WriteDefault writes cfg as YAML to path, creating parent directories.
func WriteDefault(path string, cfg Config) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	body, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	header := "# tasklist configuration\n# backend: sqlite | file | memory\n"
	return os.WriteFile(path, append([]byte(header), body...), 0o644)
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return "", false
	}
	return raw, true
}

func getEnvBool(name string) (bool, bool) {
	raw, ok := getEnvString(name)
	if !ok {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
