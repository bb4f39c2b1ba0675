package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Default focus timer durations in minutes.
const (
	DefaultWorkMinutes  = 25
	DefaultBreakMinutes = 5
)

// Config holds all configuration for the application
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Timer     TimerConfig     `mapstructure:"timer"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// StorageConfig selects and configures the persistent store backend
type StorageConfig struct {
	Driver     string `mapstructure:"driver"`
	Dir        string `mapstructure:"dir"`
	DSN        string `mapstructure:"dsn"`
	QuotaBytes int64  `mapstructure:"quota_bytes"`
}

// TimerConfig holds focus timer durations
type TimerConfig struct {
	WorkMinutes  int           `mapstructure:"work_minutes"`
	BreakMinutes int           `mapstructure:"break_minutes"`
	TickInterval time.Duration `mapstructure:"tick_interval"`
}

// DashboardConfig holds aggregation settings
type DashboardConfig struct {
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	DueSoonWindow   time.Duration `mapstructure:"due_soon_window"`
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	Filename string `mapstructure:"filename"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Storage drivers
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Load loads configuration from defaults, an optional config file and the environment.
// An empty path searches for planner.yaml in the working directory.
func Load(path string) (*Config, error) {
	// Load .env file if it exists (ignore errors)
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)
	bindEnvVars(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("planner")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration produced by defaults alone.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "StudyFlow")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")

	// Storage defaults
	v.SetDefault("storage.driver", DriverFile)
	v.SetDefault("storage.dir", ".studyflow")
	v.SetDefault("storage.dsn", "")
	v.SetDefault("storage.quota_bytes", 5*1024*1024)

	// Timer defaults
	v.SetDefault("timer.work_minutes", DefaultWorkMinutes)
	v.SetDefault("timer.break_minutes", DefaultBreakMinutes)
	v.SetDefault("timer.tick_interval", "1s")

	// Dashboard defaults
	v.SetDefault("dashboard.refresh_interval", "2s")
	v.SetDefault("dashboard.due_soon_window", "168h") // 7 days

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stderr")
	v.SetDefault("logger.filename", "")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
}

func bindEnvVars(v *viper.Viper) {
	// App
	_ = v.BindEnv("app.environment", "PLANNER_ENVIRONMENT")

	// Storage
	_ = v.BindEnv("storage.driver", "PLANNER_STORAGE_DRIVER")
	_ = v.BindEnv("storage.dir", "PLANNER_STORAGE_DIR")
	_ = v.BindEnv("storage.dsn", "PLANNER_STORAGE_DSN")
	_ = v.BindEnv("storage.quota_bytes", "PLANNER_STORAGE_QUOTA_BYTES")

	// Timer
	_ = v.BindEnv("timer.work_minutes", "PLANNER_WORK_MINUTES")
	_ = v.BindEnv("timer.break_minutes", "PLANNER_BREAK_MINUTES")
	_ = v.BindEnv("timer.tick_interval", "PLANNER_TICK_INTERVAL")

	// Dashboard
	_ = v.BindEnv("dashboard.refresh_interval", "PLANNER_DASHBOARD_REFRESH")
	_ = v.BindEnv("dashboard.due_soon_window", "PLANNER_DUE_SOON_WINDOW")

	// Logger
	_ = v.BindEnv("logger.level", "LOG_LEVEL")
	_ = v.BindEnv("logger.format", "LOG_FORMAT")
	_ = v.BindEnv("logger.output", "LOG_OUTPUT")
	_ = v.BindEnv("logger.filename", "LOG_FILENAME")

	// Metrics
	_ = v.BindEnv("metrics.enabled", "ENABLE_METRICS")
}

func validateConfig(cfg *Config) error {
	switch cfg.Storage.Driver {
	case DriverMemory:
	case DriverFile:
		if cfg.Storage.Dir == "" {
			return fmt.Errorf("storage dir is required for the file driver")
		}
	case DriverSQLite, DriverPostgres:
		if cfg.Storage.DSN == "" {
			return fmt.Errorf("storage dsn is required for the %s driver", cfg.Storage.Driver)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	if cfg.Storage.QuotaBytes < 0 {
		return fmt.Errorf("storage quota must not be negative")
	}

	if cfg.Timer.WorkMinutes <= 0 || cfg.Timer.BreakMinutes <= 0 {
		return fmt.Errorf("timer durations must be positive minutes")
	}

	if cfg.Timer.TickInterval <= 0 || cfg.Dashboard.RefreshInterval <= 0 {
		return fmt.Errorf("tick and refresh intervals must be positive")
	}

	return nil
}

// IsDevelopment returns true if the environment is development
func (cfg *AppConfig) IsDevelopment() bool {
	return cfg.Environment == "development"
}
