package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. PLANNER_DB
const EnvPrefix = "PLANNER"

// Setting keys understood by LoadSettings
const (
	KeyDataDir    = "data_dir"
	KeyDB         = "db"
	KeyProperties = "properties"
	KeyLogLevel   = "log_level"
)

// Settings locates the application's files
type Settings struct {
	DataDir        string
	DBPath         string
	PropertiesPath string
	LogLevel       string
	SettingsFile   string // empty when no settings.yaml was found
}

// NewViper returns a viper instance wired for PLANNER_* environment
// variables
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault(KeyLogLevel, "info")
	return v
}

// DefaultDataDir returns $XDG_DATA_HOME/planner, falling back to
// ~/.local/share/planner
func DefaultDataDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "planner"), nil
}

// LoadSettings resolves settings from flags and environment already bound
// to v, then from an optional settings.yaml in the data directory, then
// from defaults
func LoadSettings(v *viper.Viper) (*Settings, error) {
	dataDir := v.GetString(KeyDataDir)
	if dataDir == "" {
		d, err := DefaultDataDir()
		if err != nil {
			return nil, fmt.Errorf("resolve data dir: %w", err)
		}
		dataDir = d
	}

	s := &Settings{DataDir: dataDir}

	v.SetConfigName("settings")
	v.SetConfigType("yaml")
	v.AddConfigPath(dataDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read settings: %w", err)
		}
	} else {
		s.SettingsFile = v.ConfigFileUsed()
	}

	s.DBPath = v.GetString(KeyDB)
	if s.DBPath == "" {
		s.DBPath = filepath.Join(dataDir, "planner.db")
	}
	s.PropertiesPath = v.GetString(KeyProperties)
	if s.PropertiesPath == "" {
		s.PropertiesPath = filepath.Join(dataDir, "project_config.ini")
	}
	s.LogLevel = v.GetString(KeyLogLevel)

	return s, nil
}

// Level parses LogLevel ("debug", "info", "warn", "error")
func (s *Settings) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", s.LogLevel, err)
	}
	return level, nil
}

// LogPath is where the terminal front end writes its log
func (s *Settings) LogPath() string {
	return filepath.Join(s.DataDir, "planner.log")
}
