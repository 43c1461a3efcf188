package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/benx421/retail-ledger/internal/models"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Logger    LoggerConfig    `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Notifier  NotifierConfig  `mapstructure:"notifier"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Ledger    LedgerConfig    `mapstructure:"ledger"`
	Loans     LoansConfig     `mapstructure:"loans"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	TxMaxRetries    int           `mapstructure:"tx_max_retries"`
}

// NotifierConfig holds transaction event publishing configuration.
// An empty RabbitMQURL selects the log-only notifier.
type NotifierConfig struct {
	RabbitMQURL    string        `mapstructure:"rabbitmq_url"`
	Exchange       string        `mapstructure:"exchange"`
	PublishTimeout time.Duration `mapstructure:"publish_timeout"`
}

// SchedulerConfig holds the loan repayment trigger configuration
type SchedulerConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	RepaymentSchedule string `mapstructure:"repayment_schedule"`
}

// LedgerConfig holds money movement and interest settings
type LedgerConfig struct {
	SavingsInterestRate string `mapstructure:"savings_interest_rate"`
}

// LoansConfig holds the scheme registry and eligibility thresholds
type LoansConfig struct {
	Schemes              []SchemeConfig `mapstructure:"schemes"`
	HistoryWindow        time.Duration  `mapstructure:"history_window"`
	HighBalanceMinimum   string         `mapstructure:"high_balance_minimum"`
	HighBalanceMaxAmount string         `mapstructure:"high_balance_max_amount"`
}

// SchemeConfig describes one loan product. Amounts and rates are decimal strings.
type SchemeConfig struct {
	Name         string `mapstructure:"name"`
	MaxAmount    string `mapstructure:"max_amount"`
	InterestRate string `mapstructure:"interest_rate"`
	ReturnDays   int    `mapstructure:"return_days"`
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn, error
}

func defaultSchemes() []SchemeConfig {
	return []SchemeConfig{
		{Name: "Personal", MaxAmount: "5000", InterestRate: "0.07", ReturnDays: 180},
		{Name: "Car", MaxAmount: "20000", InterestRate: "0.08", ReturnDays: 365},
		{Name: "Home", MaxAmount: "100000", InterestRate: "0.06", ReturnDays: 3650},
		{Name: "Education", MaxAmount: "15000", InterestRate: "0.05", ReturnDays: 730},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "ledger")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "5m")
	v.SetDefault("database.tx_max_retries", 3)

	v.SetDefault("notifier.rabbitmq_url", "")
	v.SetDefault("notifier.exchange", "ledger_events")
	v.SetDefault("notifier.publish_timeout", "5s")

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.repayment_schedule", "0 3 * * *") // 03:00 daily

	v.SetDefault("ledger.savings_interest_rate", "0.05")

	v.SetDefault("loans.history_window", "4320h") // 180 days
	v.SetDefault("loans.high_balance_minimum", "1000")
	v.SetDefault("loans.high_balance_max_amount", "5000")

	v.SetDefault("log.level", "info")
}

// Load loads configuration from defaults, an optional ledger.yaml, an optional .env file
// and environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	// .env is a development convenience; its absence is normal.
	_ = godotenv.Load() //nolint:errcheck // optional file

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("ledger")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if len(cfg.Loans.Schemes) == 0 {
		cfg.Loans.Schemes = defaultSchemes()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port cannot be empty")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host cannot be empty")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("database name cannot be empty")
	}
	if c.Database.TxMaxRetries < 0 {
		return fmt.Errorf("transaction retries cannot be negative")
	}

	if c.Notifier.RabbitMQURL != "" && c.Notifier.Exchange == "" {
		return fmt.Errorf("notifier exchange cannot be empty when rabbitmq url is set")
	}

	if c.Scheduler.Enabled && c.Scheduler.RepaymentSchedule == "" {
		return fmt.Errorf("repayment schedule cannot be empty when scheduler is enabled")
	}

	if _, err := c.Ledger.SavingsRate(); err != nil {
		return err
	}

	if _, err := c.Loans.Registry(); err != nil {
		return err
	}
	if _, _, err := c.Loans.HighBalanceThresholds(); err != nil {
		return err
	}
	if c.Loans.HistoryWindow <= 0 {
		return fmt.Errorf("loan history window must be positive, got %s", c.Loans.HistoryWindow)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	return nil
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// SavingsRate parses the savings interest rate
func (c *LedgerConfig) SavingsRate() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(c.SavingsInterestRate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid savings interest rate %q: %w", c.SavingsInterestRate, err)
	}
	if rate.IsNegative() {
		return decimal.Zero, fmt.Errorf("savings interest rate cannot be negative, got %s", rate)
	}
	return rate, nil
}

// Registry converts the configured schemes into the registry consumed by loan underwriting.
func (c *LoansConfig) Registry() (map[string]models.LoanScheme, error) {
	if len(c.Schemes) == 0 {
		return nil, fmt.Errorf("at least one loan scheme must be configured")
	}

	registry := make(map[string]models.LoanScheme, len(c.Schemes))
	for _, sc := range c.Schemes {
		if sc.Name == "" {
			return nil, fmt.Errorf("loan scheme name cannot be empty")
		}
		if _, dup := registry[sc.Name]; dup {
			return nil, fmt.Errorf("duplicate loan scheme: %s", sc.Name)
		}

		maxAmount, err := decimal.NewFromString(sc.MaxAmount)
		if err != nil {
			return nil, fmt.Errorf("scheme %s: invalid max amount %q: %w", sc.Name, sc.MaxAmount, err)
		}
		if !maxAmount.IsPositive() {
			return nil, fmt.Errorf("scheme %s: max amount must be positive", sc.Name)
		}

		rate, err := decimal.NewFromString(sc.InterestRate)
		if err != nil {
			return nil, fmt.Errorf("scheme %s: invalid interest rate %q: %w", sc.Name, sc.InterestRate, err)
		}
		if rate.IsNegative() {
			return nil, fmt.Errorf("scheme %s: interest rate cannot be negative", sc.Name)
		}

		if sc.ReturnDays <= 0 {
			return nil, fmt.Errorf("scheme %s: return days must be positive", sc.Name)
		}

		registry[sc.Name] = models.LoanScheme{
			Name:         sc.Name,
			MaxAmount:    maxAmount.RoundBank(2),
			InterestRate: rate,
			ReturnDays:   sc.ReturnDays,
		}
	}

	return registry, nil
}

// HighBalanceThresholds returns the minimum balance and maximum amount of the high-balance fast path.
func (c *LoansConfig) HighBalanceThresholds() (minBalance, maxAmount decimal.Decimal, err error) {
	minBalance, err = decimal.NewFromString(c.HighBalanceMinimum)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("invalid high balance minimum %q: %w", c.HighBalanceMinimum, err)
	}
	maxAmount, err = decimal.NewFromString(c.HighBalanceMaxAmount)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("invalid high balance max amount %q: %w", c.HighBalanceMaxAmount, err)
	}
	return minBalance, maxAmount, nil
}
