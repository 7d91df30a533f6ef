package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Session  SessionConfig
	Grid     GridConfig
}

type AppConfig struct {
	Name        string        `mapstructure:"name"`
	Environment string        `mapstructure:"environment"`
	Debug       bool          `mapstructure:"debug"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Port        string        `mapstructure:"port"`
	LogsPath    string        `mapstructure:"logs_path"`
	Seed        bool          `mapstructure:"seed"`
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"`
}

type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	Database     int           `mapstructure:"database"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	PoolTimeout  time.Duration `mapstructure:"pool_timeout"`
}

// SessionConfig controls the cookie identifying a client's grid state.
type SessionConfig struct {
	CookieName string        `mapstructure:"cookie_name"`
	TTL        time.Duration `mapstructure:"ttl"`
	Secure     bool          `mapstructure:"secure"`
}

// GridDefaults is the initial route state of one grid.
type GridDefaults struct {
	PageSize      int    `yaml:"page_size"`
	SortField     string `yaml:"sort"`
	SortDirection string `yaml:"dir"`
}

type GridConfig struct {
	Books       GridDefaults `yaml:"books"`
	Authors     GridDefaults `yaml:"authors"`
	MaxPageSize int          `yaml:"max_page_size"`
	File        string       `yaml:"-"`
}

func LoadConfig() (*Config, error) {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		// Silent warning for missing .env file
	}

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "storefront"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Debug:       getEnvAsBool("APP_DEBUG", true),
			Timeout:     getEnvAsDuration("APP_TIMEOUT", 30*time.Second),
			LogsPath:    getEnv("LOGS_PATH", "logs"),
			Seed:        getEnvAsBool("APP_SEED", true),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "postgres"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			Name:            getEnv("DB_NAME", "storefront"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getEnvAsInt("DB_CONN_MAX_LIFETIME", 60),
			ConnMaxIdleTime: getEnvAsInt("DB_CONN_MAX_IDLE_TIME", 10),
		},
		Redis: RedisConfig{
			Enabled:      getEnvAsBool("REDIS_ENABLED", false),
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnvAsInt("REDIS_PORT", 6379),
			Password:     getEnv("REDIS_PASSWORD", ""),
			Database:     getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
			DialTimeout:  getEnvAsDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvAsDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvAsDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			PoolTimeout:  getEnvAsDuration("REDIS_POOL_TIMEOUT", 4*time.Second),
		},
		Session: SessionConfig{
			CookieName: getEnv("SESSION_COOKIE", "sid"),
			TTL:        getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			Secure:     getEnvAsBool("SESSION_SECURE", false),
		},
		Grid: GridConfig{
			Books: GridDefaults{
				PageSize:  getEnvAsInt("GRID_BOOKS_PAGE_SIZE", 4),
				SortField: getEnv("GRID_BOOKS_SORT", "title"),
			},
			Authors: GridDefaults{
				PageSize:  getEnvAsInt("GRID_AUTHORS_PAGE_SIZE", 4),
				SortField: getEnv("GRID_AUTHORS_SORT", "firstname"),
			},
			MaxPageSize: getEnvAsInt("GRID_MAX_PAGE_SIZE", 100),
			File:        getEnv("GRIDS_FILE", ""),
		},
	}

	if config.Grid.File != "" {
		if err := config.Grid.LoadFile(config.Grid.File); err != nil {
			return nil, err
		}
	}

	return config, nil
}

// LoadFile overlays grid defaults read from a YAML file. Fields left out of
// the file keep their current values.
func (g *GridConfig) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read grids file: %w", err)
	}
	return g.Overlay(data)
}

// Overlay applies YAML grid defaults on top of g.
func (g *GridConfig) Overlay(data []byte) error {
	var file GridConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse grids file: %w", err)
	}

	g.Books = mergeGrid(g.Books, file.Books)
	g.Authors = mergeGrid(g.Authors, file.Authors)
	if file.MaxPageSize > 0 {
		g.MaxPageSize = file.MaxPageSize
	}
	return nil
}

func mergeGrid(base, over GridDefaults) GridDefaults {
	if over.PageSize > 0 {
		base.PageSize = over.PageSize
	}
	if over.SortField != "" {
		base.SortField = over.SortField
	}
	if over.SortDirection != "" {
		base.SortDirection = over.SortDirection
	}
	return base
}

func (c *Config) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		boolValue, err := strconv.ParseBool(value)
		if err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
