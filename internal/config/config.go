package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Email      EmailConfig      `yaml:"email"`
	JWT        JWTConfig        `yaml:"jwt"`
	Documents  DocumentsConfig  `yaml:"documents"`
	Transfer   TransferConfig   `yaml:"transfer"`
	Settlement SettlementConfig `yaml:"settlement"`
	Log        LogConfig        `yaml:"log"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
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

// EmailConfig contains SendGrid settings for reminder mails
type EmailConfig struct {
	APIKey   string `yaml:"api_key"`
	From     string `yaml:"from"`
	FromName string `yaml:"from_name"`
}

// JWTConfig contains bearer token settings for the command API
type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// DocumentsConfig contains clearance document storage settings
type DocumentsConfig struct {
	Dir string `yaml:"dir"`
}

// TransferConfig contains the external transfer service settings
type TransferConfig struct {
	BaseURL  string `yaml:"base_url"`
	APIKey   string `yaml:"api_key"`
	Currency string `yaml:"currency"`
}

// SettlementConfig contains platform-wide settlement defaults
type SettlementConfig struct {
	// DefaultPlatformRate is the fallback platform commission percentage
	// when neither an admin override nor a rental-stored rate exists.
	DefaultPlatformRate float64 `yaml:"default_platform_rate"`
	// TaxRate is applied when reporting gross sales; it is never distributed.
	TaxRate float64 `yaml:"tax_rate"`
	// PendingExpiryHours is how long a PENDING rental may wait before the
	// lifecycle sweep expires it.
	PendingExpiryHours int `yaml:"pending_expiry_hours"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	LifecycleSweep   string `yaml:"lifecycle_sweep"`
	ReminderSweep    string `yaml:"reminder_sweep"`
	DispatchPayouts  string `yaml:"dispatch_payouts"`
	RefreshTransfers string `yaml:"refresh_transfers"`
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

	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Email.APIKey = val
	}
	if val := os.Getenv("EMAIL_FROM"); val != "" {
		c.Email.From = val
	}

	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	if val := os.Getenv("TRANSFER_BASE_URL"); val != "" {
		c.Transfer.BaseURL = val
	}
	if val := os.Getenv("TRANSFER_API_KEY"); val != "" {
		c.Transfer.APIKey = val
	}

	if val := os.Getenv("DOCUMENTS_DIR"); val != "" {
		c.Documents.Dir = val
	}

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

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}

	if c.Documents.Dir == "" {
		return fmt.Errorf("documents directory is required")
	}

	if c.Transfer.BaseURL == "" {
		return fmt.Errorf("transfer service base URL is required")
	}
	if c.Transfer.Currency == "" {
		c.Transfer.Currency = "EUR"
	}

	// Settlement defaults
	if c.Settlement.DefaultPlatformRate == 0 {
		c.Settlement.DefaultPlatformRate = 22.0
	}
	if c.Settlement.TaxRate == 0 {
		c.Settlement.TaxRate = 0.19
	}
	if c.Settlement.PendingExpiryHours == 0 {
		c.Settlement.PendingExpiryHours = 48
	}

	// Scheduler defaults
	if c.Scheduler.LifecycleSweep == "" {
		c.Scheduler.LifecycleSweep = "0 0 * * * *" // hourly
	}
	if c.Scheduler.ReminderSweep == "" {
		c.Scheduler.ReminderSweep = "0 0 9 * * *" // daily at 9 AM UTC
	}
	if c.Scheduler.DispatchPayouts == "" {
		c.Scheduler.DispatchPayouts = "0 */15 * * * *" // every 15 minutes
	}
	if c.Scheduler.RefreshTransfers == "" {
		c.Scheduler.RefreshTransfers = "0 5/15 * * * *" // offset from dispatch
	}

	return nil
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
