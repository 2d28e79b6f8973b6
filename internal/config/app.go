package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/fintrack/internal/common"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Defaults.
const (
	DefaultAPIURL   = "http://localhost:8080/api"
	DefaultPageSize = 20
	DefaultDBPath   = "~/.local/share/fintrack/fintrack.db"
)

// Config is the validated runtime configuration.
type Config struct {
	Database   DatabaseConfig
	Logging    LoggingConfig
	API        APIConfig
	Budget     BudgetConfig
	Pagination PaginationConfig
}

// APIConfig configures the REST client.
type APIConfig struct {
	URL       string        `validate:"required,url"`
	Timeout   time.Duration `validate:"gt=0"`
	CacheTTL  time.Duration `validate:"gte=0"`
	RateLimit float64       `validate:"gte=0"`
	RateBurst int           `validate:"gte=0"`
}

// DatabaseConfig locates the local preference store.
type DatabaseConfig struct {
	Path string `validate:"required"`
}

// PaginationConfig sets list page sizes.
type PaginationConfig struct {
	PageSize int `validate:"gte=1,lte=500"`
}

// BudgetConfig controls how budget windows roll over.
type BudgetConfig struct {
	WeeklyDays    int `validate:"gte=1"`
	MonthlyMonths int `validate:"gte=1"`
	YearlyYears   int `validate:"gte=1"`
	RollForward   bool
}

// LoggingConfig controls slog output.
type LoggingConfig struct {
	Level  string `validate:"omitempty,oneof=debug info warn warning error"`
	Format string `validate:"omitempty,oneof=console json"`
}

// SetDefaults registers default values for every key Load reads.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api.url", DefaultAPIURL)
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("api.cache_ttl", 5*time.Minute)
	v.SetDefault("api.rate_limit", 0)
	v.SetDefault("api.rate_burst", 1)
	v.SetDefault("database.path", DefaultDBPath)
	v.SetDefault("pagination.page_size", DefaultPageSize)
	v.SetDefault("budget.rollover.weekly_days", 7)
	v.SetDefault("budget.rollover.monthly_months", 1)
	v.SetDefault("budget.rollover.yearly_years", 1)
	v.SetDefault("budget.roll_forward", false)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// BindEnv makes every key readable from FINTRACK_* variables.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix("FINTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// LoadEnvFile loads variables from the file named by ENV_FILE, or from
// ./.env when it exists. Variables already set in the environment win.
func LoadEnvFile() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	return nil
}

// Load reads and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		API: APIConfig{
			URL:       strings.TrimRight(v.GetString("api.url"), "/"),
			Timeout:   v.GetDuration("api.timeout"),
			CacheTTL:  v.GetDuration("api.cache_ttl"),
			RateLimit: v.GetFloat64("api.rate_limit"),
			RateBurst: v.GetInt("api.rate_burst"),
		},
		Database: DatabaseConfig{
			Path: ExpandPath(v.GetString("database.path")),
		},
		Pagination: PaginationConfig{
			PageSize: v.GetInt("pagination.page_size"),
		},
		Budget: BudgetConfig{
			WeeklyDays:    v.GetInt("budget.rollover.weekly_days"),
			MonthlyMonths: v.GetInt("budget.rollover.monthly_months"),
			YearlyYears:   v.GetInt("budget.rollover.yearly_years"),
			RollForward:   v.GetBool("budget.roll_forward"),
		},
		Logging: LoggingConfig{
			Level:  strings.ToLower(v.GetString("logging.level")),
			Format: strings.ToLower(v.GetString("logging.format")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", strings.TrimPrefix(fe.Namespace(), "Config."), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", common.ErrInvalidConfig, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	return nil
}
