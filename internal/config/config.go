// Package config resolves process-wide settings through a package-level
// viper singleton: a project-local config file search and TT_-prefixed
// environment overrides.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

var v *viper.Viper

// Initialize sets up the viper configuration singleton. Should be called
// once at process startup, before any Get* call.
func Initialize() error {
	v = viper.New()
	v.SetConfigType("yaml")

	configFileSet := locateConfigFile(v)

	// Environment variables take precedence over the config file.
	v.SetEnvPrefix("TT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("db", defaultDBPath())
	v.SetDefault("timezone", "")
	v.SetDefault("rest-advisor.enabled", true)
	v.SetDefault("log.path", defaultLogPath())
	v.SetDefault("log.max-size-mb", 5)
	v.SetDefault("log.max-backups", 3)
	v.SetDefault("log.max-age-days", 28)

	if configFileSet {
		if err := v.ReadInConfig(); err != nil {
			return err
		}
	}
	return nil
}

// locateConfigFile implements the search precedence: project-local
// .timetrack/config.yaml (walking up from cwd) > user config directory >
// home directory.
func locateConfigFile(v *viper.Viper) bool {
	if cwd, err := os.Getwd(); err == nil {
		for dir := cwd; dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
			path := filepath.Join(dir, ".timetrack", "config.yaml")
			if _, err := os.Stat(path); err == nil {
				v.SetConfigFile(path)
				return true
			}
		}
	}
	if configDir, err := os.UserConfigDir(); err == nil {
		path := filepath.Join(configDir, "timetrack", "config.yaml")
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			return true
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".timetrack", "config.yaml")
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			return true
		}
	}
	return false
}

func defaultDBPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".timetrack", "timetrack.db")
	}
	return ".timetrack/timetrack.db"
}

func defaultLogPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".timetrack", "timetrack.log")
	}
	return ".timetrack/timetrack.log"
}

// DBPath returns the resolved SQLite database file path.
func DBPath() string { return GetString("db") }

// Location returns the process's time zone policy: the configured
// override if set, otherwise time.Local.
func Location() *time.Location {
	tz := GetString("timezone")
	if tz == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Local
	}
	return loc
}

// RestAdvisorEnabled reports whether post-commit rest suggestions are
// enabled; a host can disable the advisor entirely while still using the
// rest of the engine.
func RestAdvisorEnabled() bool { return GetBool("rest-advisor.enabled") }

// LogWriter returns the rotating file sink the engine's one diagnostic log
// line (store open/migrate failures) is written to, in addition to stderr.
func LogWriter() *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   GetString("log.path"),
		MaxSize:    GetInt("log.max-size-mb"),
		MaxBackups: GetInt("log.max-backups"),
		MaxAge:     GetInt("log.max-age-days"),
	}
}

// GetString retrieves a string configuration value.
func GetString(key string) string {
	if v == nil {
		return ""
	}
	return v.GetString(key)
}

// GetBool retrieves a boolean configuration value.
func GetBool(key string) bool {
	if v == nil {
		return false
	}
	return v.GetBool(key)
}

// GetInt retrieves an integer configuration value.
func GetInt(key string) int {
	if v == nil {
		return 0
	}
	return v.GetInt(key)
}

// Snapshot returns the fully resolved settings map, defaults included.
func Snapshot() map[string]interface{} {
	if v == nil {
		return nil
	}
	return v.AllSettings()
}

// Set overrides a configuration value, mainly for tests.
func Set(key string, value interface{}) {
	if v != nil {
		v.Set(key, value)
	}
}
