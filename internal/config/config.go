package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Pricing   PricingConfig   `yaml:"pricing"`
	Booking   BookingConfig   `yaml:"booking"`
	Email     EmailConfig     `yaml:"email"`
	JWT       JWTConfig       `yaml:"jwt"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// PricingConfig contains the money knobs of the quote pipeline.
type PricingConfig struct {
	// TaxRate is a flat fraction applied after discounts, e.g. "0.08".
	TaxRate string `yaml:"tax_rate"`
}

// BookingConfig contains hold-window and cancellation policy settings.
type BookingConfig struct {
	// HoldWindowMinutes is how long a pending booking keeps its
	// inventory hold before the sweep cancels it.
	HoldWindowMinutes int `yaml:"hold_window_minutes"`
	// FullRefundHours: cancelling at least this many hours before the
	// start date refunds everything.
	FullRefundHours int `yaml:"full_refund_hours"`
	// PartialRefundPercent applies inside the full-refund window, up
	// until pickup.
	PartialRefundPercent int `yaml:"partial_refund_percent"`
	// TurnoverBufferDays widens every existing hold on both sides when
	// checking availability. Zero means back-to-back rentals on
	// adjacent days are allowed but never on the same day.
	TurnoverBufferDays int `yaml:"turnover_buffer_days"`
}

// EmailConfig contains receipt delivery settings. An empty API key
// disables outbound email.
type EmailConfig struct {
	SendGridAPIKey string `yaml:"sendgrid_api_key"`
	From           string `yaml:"from"`
}

// JWTConfig contains bearer-token validation settings
type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings (with seconds field)
type SchedulerConfig struct {
	ExpirePendingBookings string `yaml:"expire_pending_bookings"`
	ActivateDueBookings   string `yaml:"activate_due_bookings"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Email
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Email.SendGridAPIKey = val
	}
	if val := os.Getenv("EMAIL_FROM"); val != "" {
		c.Email.From = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Pricing / booking policy
	if val := os.Getenv("TAX_RATE"); val != "" {
		c.Pricing.TaxRate = val
	}
	if val := os.Getenv("HOLD_WINDOW_MINUTES"); val != "" {
		fmt.Sscanf(val, "%d", &c.Booking.HoldWindowMinutes)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid and fills defaults
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// Database validation
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}

	// Pricing defaults
	if c.Pricing.TaxRate == "" {
		c.Pricing.TaxRate = "0.08"
	}
	if _, err := decimal.NewFromString(c.Pricing.TaxRate); err != nil {
		return fmt.Errorf("invalid tax rate %q: %w", c.Pricing.TaxRate, err)
	}

	// Booking policy defaults
	if c.Booking.HoldWindowMinutes == 0 {
		c.Booking.HoldWindowMinutes = 30
	}
	if c.Booking.FullRefundHours == 0 {
		c.Booking.FullRefundHours = 48
	}
	if c.Booking.PartialRefundPercent == 0 {
		c.Booking.PartialRefundPercent = 50
	}
	if c.Booking.PartialRefundPercent < 0 || c.Booking.PartialRefundPercent > 100 {
		return fmt.Errorf("partial refund percent must be within [0, 100]: %d", c.Booking.PartialRefundPercent)
	}
	if c.Booking.TurnoverBufferDays < 0 {
		return fmt.Errorf("turnover buffer days cannot be negative: %d", c.Booking.TurnoverBufferDays)
	}

	// Scheduler defaults
	if c.Scheduler.ExpirePendingBookings == "" {
		c.Scheduler.ExpirePendingBookings = "0 */5 * * * *" // every 5 minutes
	}
	if c.Scheduler.ActivateDueBookings == "" {
		c.Scheduler.ActivateDueBookings = "0 0 2 * * *" // 2 AM UTC
	}

	return nil
}

// TaxRate returns the parsed flat tax fraction. Validate has already
// checked it parses.
func (c *Config) TaxRate() decimal.Decimal {
	rate, _ := decimal.NewFromString(c.Pricing.TaxRate)
	return rate
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
