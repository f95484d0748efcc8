package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"

	"github.com/wekesa/pesaledger/internal/pkg/models"
)

// InitConfig loads configuration from environment variables, optionally
// seeded from an env-style file for local development. Environment variables
// always win over file values.
func InitConfig(configPath string) *models.Config {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			log.Println("error loading config from file", err)
		}
	}

	return loadConfig(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "pesaledger")
	v.SetDefault("APP_ENV", "local")
	v.SetDefault("APP_DEBUG", true)
	v.SetDefault("APP_VERSION", "")

	v.SetDefault("SERVER_HOST", "")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_READ_TIMEOUT", 15)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 15)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 30)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USERNAME", "")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_DATABASE", "pesaledger")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_IDLE_CONNS", 2)
	v.SetDefault("DB_QUERY_TIMEOUT", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 10)

	v.SetDefault("NSQ_ADDRESS", "localhost:4150")
	v.SetDefault("NSQ_ENABLED", false)

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRATION", 60)
	v.SetDefault("JWT_ISSUER", "pesaledger")

	v.SetDefault("AUTH_API_KEY_HASH", "")

	v.SetDefault("DARAJA_ENVIRONMENT", "sandbox")
	v.SetDefault("DARAJA_CONSUMER_KEY", "")
	v.SetDefault("DARAJA_CONSUMER_SECRET", "")
	v.SetDefault("DARAJA_SHORTCODE", "")
	v.SetDefault("DARAJA_CONFIRMATION_URL", "")
	v.SetDefault("DARAJA_VALIDATION_URL", "")
	v.SetDefault("DARAJA_TIMEOUT", 30)

	v.SetDefault("LEDGER_MIN_AMOUNT", "10")
	v.SetDefault("LEDGER_SWEEP_INTERVAL", 300)
	v.SetDefault("LEDGER_SWEEP_BATCH_SIZE", 100)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE_PATH", "logs/pesaledger.log")

	v.SetDefault("AUDIT_FILE_PATH", "logs/audit.log")
}

func loadConfig(v *viper.Viper) *models.Config {
	configs := &models.Config{}

	configs.App.Name = v.GetString("APP_NAME")
	configs.App.Environment = v.GetString("APP_ENV")
	configs.App.Debug = v.GetBool("APP_DEBUG")
	configs.App.Version = v.GetString("APP_VERSION")

	configs.Server.Host = v.GetString("SERVER_HOST")
	configs.Server.Port = v.GetInt("SERVER_PORT")
	configs.Server.ReadTimeout = v.GetInt("SERVER_READ_TIMEOUT")
	configs.Server.WriteTimeout = v.GetInt("SERVER_WRITE_TIMEOUT")
	configs.Server.ShutdownTimeout = v.GetInt("SERVER_SHUTDOWN_TIMEOUT")

	configs.Database.Host = v.GetString("DB_HOST")
	configs.Database.Port = v.GetInt("DB_PORT")
	configs.Database.Username = v.GetString("DB_USERNAME")
	configs.Database.Password = v.GetString("DB_PASSWORD")
	configs.Database.Database = v.GetString("DB_DATABASE")
	configs.Database.SSLMode = v.GetString("DB_SSL_MODE")
	configs.Database.MaxConns = v.GetInt("DB_MAX_CONNS")
	configs.Database.IdleConns = v.GetInt("DB_IDLE_CONNS")
	configs.Database.QueryTimeout = v.GetInt("DB_QUERY_TIMEOUT")

	configs.Redis.Host = v.GetString("REDIS_HOST")
	configs.Redis.Port = v.GetInt("REDIS_PORT")
	configs.Redis.Password = v.GetString("REDIS_PASSWORD")
	configs.Redis.DB = v.GetInt("REDIS_DB")
	configs.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")

	configs.NSQ.Address = v.GetString("NSQ_ADDRESS")
	configs.NSQ.Enabled = v.GetBool("NSQ_ENABLED")

	configs.JWT.Secret = v.GetString("JWT_SECRET")
	configs.JWT.Expiration = v.GetInt("JWT_EXPIRATION")
	configs.JWT.Issuer = v.GetString("JWT_ISSUER")

	configs.Auth.APIKeyHash = v.GetString("AUTH_API_KEY_HASH")

	configs.Daraja.Environment = v.GetString("DARAJA_ENVIRONMENT")
	configs.Daraja.ConsumerKey = v.GetString("DARAJA_CONSUMER_KEY")
	configs.Daraja.ConsumerSecret = v.GetString("DARAJA_CONSUMER_SECRET")
	configs.Daraja.ShortCode = v.GetString("DARAJA_SHORTCODE")
	configs.Daraja.ConfirmationURL = v.GetString("DARAJA_CONFIRMATION_URL")
	configs.Daraja.ValidationURL = v.GetString("DARAJA_VALIDATION_URL")
	configs.Daraja.Timeout = v.GetInt("DARAJA_TIMEOUT")

	configs.Ledger.MinAmount = v.GetString("LEDGER_MIN_AMOUNT")
	configs.Ledger.SweepInterval = v.GetInt("LEDGER_SWEEP_INTERVAL")
	configs.Ledger.SweepBatchSize = v.GetInt("LEDGER_SWEEP_BATCH_SIZE")

	configs.Logger.Level = v.GetString("LOG_LEVEL")
	configs.Logger.FilePath = v.GetString("LOG_FILE_PATH")

	configs.Audit.FilePath = v.GetString("AUDIT_FILE_PATH")

	return configs
}
