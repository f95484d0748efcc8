package models

// Config represents application configuration
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NSQ      NSQConfig
	JWT      JWTConfig
	Auth     AuthConfig
	Daraja   DarajaConfig
	Ledger   LedgerConfig
	Logger   LoggerConfig
	Audit    AuditConfig
}

// AppConfig contains application-specific configuration
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	Version     string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host         string
	Port         int
	Username     string
	Password     string
	Database     string
	SSLMode      string
	MaxConns     int
	IdleConns    int
	QueryTimeout int // per-operation timeout in seconds
}

// RedisConfig contains Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// NSQConfig contains NSQ producer configuration
type NSQConfig struct {
	Address string
	Enabled bool
}

// JWTConfig contains JWT authentication configuration for the operator API
type JWTConfig struct {
	Secret     string
	Expiration int // in minutes
	Issuer     string
}

// AuthConfig contains the operator API key configuration.
// APIKeyHash is a bcrypt hash of the static key handed to operators.
type AuthConfig struct {
	APIKeyHash string
}

// DarajaConfig contains Safaricom Daraja API credentials and callback URLs
type DarajaConfig struct {
	Environment     string // sandbox or production
	ConsumerKey     string
	ConsumerSecret  string
	ShortCode       string
	ConfirmationURL string
	ValidationURL   string
	Timeout         int // HTTP timeout in seconds
}

// LedgerConfig contains ingestion and reconciliation settings
type LedgerConfig struct {
	MinAmount      string // minimum accepted amount, parsed as a decimal
	SweepInterval  int    // seconds between unapplied-transaction sweeps, 0 disables
	SweepBatchSize int
}

// LoggerConfig contains application logger configuration
type LoggerConfig struct {
	Level    string
	FilePath string
}

// AuditConfig contains the audit trail sink configuration
type AuditConfig struct {
	FilePath string
}
