package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Mail     MailConfig     `mapstructure:"mail"`
	Notify   NotifyConfig   `mapstructure:"notify" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port               int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel           string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	CORSAllowedOrigins []string      `mapstructure:"cors_allowed_origins"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url" validate:"required,url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
	// Migrate applies the embedded schema migrations on startup.
	Migrate bool `mapstructure:"migrate"`
}

// AuthConfig contains credential hashing settings.
type AuthConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
}

// MailConfig contains SMTP settings for outgoing notifications.
// An empty Host disables SMTP delivery; messages are only logged.
type MailConfig struct {
	Host        string `mapstructure:"host" validate:"omitempty,hostname_rfc1123"`
	Port        int    `mapstructure:"port" validate:"omitempty,gt=0,lt=65536"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	FromAddress string `mapstructure:"from_address" validate:"omitempty,email"`
	AppName     string `mapstructure:"app_name" validate:"required"`
	// TLSPolicy is one of "mandatory", "opportunistic" or "none".
	TLSPolicy string `mapstructure:"tls_policy" validate:"oneof=mandatory opportunistic none"`
}

// Enabled reports whether SMTP delivery is configured.
func (m MailConfig) Enabled() bool {
	return m.Host != ""
}

// NotifyConfig controls the background notification dispatcher.
type NotifyConfig struct {
	QueueSize   int `mapstructure:"queue_size" validate:"gte=1"`
	WorkerCount int `mapstructure:"worker_count" validate:"gte=1"`
}
