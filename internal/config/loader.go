package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/rpattn/sfs/internal/db"
	"github.com/rpattn/sfs/internal/logging"
	"github.com/rpattn/sfs/internal/search"
)

// EnvPrefix prefixes environment overrides, e.g. SFS_DATABASE_HOST.
const EnvPrefix = "SFS"

// Settings is the process-wide configuration. It is read once at startup.
type Settings struct {
	Database db.Config
	Log      logging.Config
	Server   ServerSettings

	// TimeZone anchors date filters at local midnight.
	TimeZone string
	// NativeRanges turns on interval filtering for every view.
	NativeRanges      bool
	UserEntity        string
	UserSearchFields  []string
	DefaultPagination int
	ViewsFile         string
}

// ServerSettings configures the HTTP listener.
type ServerSettings struct {
	Addr           string
	AllowedOrigins []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
}

// Location resolves TimeZone.
func (s Settings) Location() (*time.Location, error) {
	if s.TimeZone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(s.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("failed to load time zone %q: %w", s.TimeZone, err)
	}
	return loc, nil
}

func setDefaults(v *viper.Viper) {
	dbDefaults := db.DefaultConfig()
	v.SetDefault("database.host", dbDefaults.Host)
	v.SetDefault("database.port", dbDefaults.Port)
	v.SetDefault("database.user", dbDefaults.User)
	v.SetDefault("database.password", dbDefaults.Password)
	v.SetDefault("database.dbname", dbDefaults.DBName)
	v.SetDefault("database.sslmode", dbDefaults.SSLMode)
	v.SetDefault("database.max_conns", 5)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.add_source", false)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)

	v.SetDefault("time_zone", "UTC")
	v.SetDefault("native_ranges", false)
	v.SetDefault("user_entity", search.DefaultUserEntity)
	v.SetDefault("user_search_fields", search.DefaultUserFields)
	v.SetDefault("default_pagination", 25)
	v.SetDefault("views_file", "views.yaml")
}

// Load reads config.yaml from configPath, then applies SFS_* environment
// overrides on top of the defaults. A missing file is not an error.
func Load(configPath string, logger *slog.Logger) (Settings, error) {
	if logger == nil {
		logger = slog.Default()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv() // allow environment overrides
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("failed to read config: %w", err)
		}
		logger.Info("no config.yaml found, using defaults and env vars", "path", configPath)
	} else {
		logger.Info("loaded config", "file", v.ConfigFileUsed())
	}

	s := Settings{
		Database: db.Config{
			Host:     v.GetString("database.host"),
			Port:     v.GetInt("database.port"),
			User:     v.GetString("database.user"),
			Password: v.GetString("database.password"),
			DBName:   v.GetString("database.dbname"),
			SSLMode:  v.GetString("database.sslmode"),
			TimeZone: v.GetString("time_zone"),
			MaxConns: v.GetInt32("database.max_conns"),
		},
		Log: logging.Config{
			Level:     v.GetString("log.level"),
			Format:    v.GetString("log.format"),
			AddSource: v.GetBool("log.add_source"),
		},
		Server: ServerSettings{
			Addr:           v.GetString("server.addr"),
			AllowedOrigins: v.GetStringSlice("server.allowed_origins"),
			ReadTimeout:    v.GetDuration("server.read_timeout"),
			WriteTimeout:   v.GetDuration("server.write_timeout"),
			IdleTimeout:    v.GetDuration("server.idle_timeout"),
		},
		TimeZone:          v.GetString("time_zone"),
		NativeRanges:      v.GetBool("native_ranges"),
		UserEntity:        v.GetString("user_entity"),
		UserSearchFields:  v.GetStringSlice("user_search_fields"),
		DefaultPagination: v.GetInt("default_pagination"),
		ViewsFile:         v.GetString("views_file"),
	}

	if s.DefaultPagination <= 0 {
		return Settings{}, fmt.Errorf("default_pagination must be positive, got %d", s.DefaultPagination)
	}
	if _, err := s.Location(); err != nil {
		return Settings{}, err
	}
	return s, nil
}
