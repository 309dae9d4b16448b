/**
 * @description
 * This package handles the configuration management for the service. It uses
 * the Viper library to read configuration from environment variables, with an
 * optional .env file for local development.
 *
 * @dependencies
 * - github.com/spf13/viper: A popular library for Go application configuration.
 */

package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all the configuration variables for the server.
// These values are loaded from environment variables.
type Config struct {
	ServerPort           string  `mapstructure:"SERVER_PORT"`
	BaseURL              string  `mapstructure:"BASE_URL"`
	DatabaseURL          string  `mapstructure:"DATABASE_URL"`
	RedisURL             string  `mapstructure:"REDIS_URL"`
	RedisRateLimitPrefix string  `mapstructure:"REDIS_RATE_LIMIT_PREFIX"`
	RabbitMQURL          string  `mapstructure:"RABBITMQ_URL"`
	JWTSecret            string  `mapstructure:"JWT_SECRET"`
	TokenTTLHours        int     `mapstructure:"TOKEN_TTL_HOURS"`
	UploadDir            string  `mapstructure:"UPLOAD_DIR"`
	MaxUploadBytes       int64   `mapstructure:"MAX_UPLOAD_BYTES"`
	CORSAllowedOrigins   string  `mapstructure:"CORS_ALLOWED_ORIGINS"`
	CredentialsKey       string  `mapstructure:"CREDENTIALS_ENCRYPTION_KEY"`
	PayPalClientID       string  `mapstructure:"PAYPAL_CLIENT_ID"`
	PayPalSecret         string  `mapstructure:"PAYPAL_SECRET"`
	PayPalMode           string  `mapstructure:"PAYPAL_MODE"`
	PaystackSecretKey    string  `mapstructure:"PAYSTACK_SECRET_KEY"`
	PaystackPublicKey    string  `mapstructure:"PAYSTACK_PUBLIC_KEY"`
	CoinbaseAPIKey       string  `mapstructure:"COINBASE_API_KEY"`
	CoinbaseWebhookKey   string  `mapstructure:"COINBASE_WEBHOOK_SECRET"`
	NGNPerUSDRate        float64 `mapstructure:"NGN_PER_USD_RATE"`
	MailServer           string  `mapstructure:"MAIL_SERVER"`
	MailPort             int     `mapstructure:"MAIL_PORT"`
	MailUsername         string  `mapstructure:"MAIL_USERNAME"`
	MailPassword         string  `mapstructure:"MAIL_PASSWORD"`
	MailDefaultSender    string  `mapstructure:"MAIL_DEFAULT_SENDER"`
	EnableSelfPing       bool    `mapstructure:"ENABLE_SELF_PING"`
	SelfPingURL          string  `mapstructure:"SELF_PING_URL"`
	SelfPingIntervalMin  int     `mapstructure:"SELF_PING_INTERVAL_MINUTES"`
	LoginRateLimitPerMin int     `mapstructure:"LOGIN_RATE_LIMIT_PER_MINUTE"`
	DonateRateLimitPerMin int    `mapstructure:"DONATION_RATE_LIMIT_PER_MINUTE"`
}

// LoadConfig reads configuration from environment variables from the given path.
// It uses Viper to automatically bind environment variables to the Config struct.
func LoadConfig(path string) (config Config, err error) {
	// Tell viper the path to look for the optional .env file.
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	// Enable automatic binding of environment variables.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("BASE_URL", "http://localhost:8080")
	viper.SetDefault("TOKEN_TTL_HOURS", 24)
	viper.SetDefault("UPLOAD_DIR", "uploads")
	viper.SetDefault("MAX_UPLOAD_BYTES", 16*1024*1024)
	viper.SetDefault("REDIS_RATE_LIMIT_PREFIX", "crowdfund:rate_limit")
	viper.SetDefault("PAYPAL_MODE", "live")
	viper.SetDefault("NGN_PER_USD_RATE", 1500.0)
	viper.SetDefault("MAIL_SERVER", "")
	viper.SetDefault("MAIL_PORT", 587)
	viper.SetDefault("ENABLE_SELF_PING", false)
	viper.SetDefault("SELF_PING_INTERVAL_MINUTES", 10)
	viper.SetDefault("LOGIN_RATE_LIMIT_PER_MINUTE", 10)
	viper.SetDefault("DONATION_RATE_LIMIT_PER_MINUTE", 30)

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("PORT")
	_ = viper.BindEnv("BASE_URL")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("REDIS_URL")
	_ = viper.BindEnv("REDIS_RATE_LIMIT_PREFIX")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("JWT_SECRET", "JWT_SECRET", "SECRET_KEY")
	_ = viper.BindEnv("TOKEN_TTL_HOURS")
	_ = viper.BindEnv("UPLOAD_DIR")
	_ = viper.BindEnv("MAX_UPLOAD_BYTES")
	_ = viper.BindEnv("CORS_ALLOWED_ORIGINS")
	_ = viper.BindEnv("CREDENTIALS_ENCRYPTION_KEY")
	_ = viper.BindEnv("PAYPAL_CLIENT_ID")
	_ = viper.BindEnv("PAYPAL_SECRET")
	_ = viper.BindEnv("PAYPAL_MODE")
	_ = viper.BindEnv("PAYSTACK_SECRET_KEY")
	_ = viper.BindEnv("PAYSTACK_PUBLIC_KEY")
	_ = viper.BindEnv("COINBASE_API_KEY")
	_ = viper.BindEnv("COINBASE_WEBHOOK_SECRET")
	_ = viper.BindEnv("NGN_PER_USD_RATE")
	_ = viper.BindEnv("MAIL_SERVER")
	_ = viper.BindEnv("MAIL_PORT")
	_ = viper.BindEnv("MAIL_USERNAME")
	_ = viper.BindEnv("MAIL_PASSWORD")
	_ = viper.BindEnv("MAIL_DEFAULT_SENDER")
	_ = viper.BindEnv("ENABLE_SELF_PING")
	_ = viper.BindEnv("SELF_PING_URL")
	_ = viper.BindEnv("SELF_PING_INTERVAL_MINUTES")
	_ = viper.BindEnv("LOGIN_RATE_LIMIT_PER_MINUTE")
	_ = viper.BindEnv("DONATION_RATE_LIMIT_PER_MINUTE")

	// Attempt to read the config file. It's okay if it doesn't exist.
	if err = viper.ReadInConfig(); err != nil {
		// If the config file is not found, we can ignore the error.
		// For other errors, we should return them.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("level=warn component=config msg=\"failed to read config file; using environment values\" err=%v", err)
		}
	}

	// Unmarshal the configuration into the Config struct.
	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	// Platform-injected PORT wins over SERVER_PORT.
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		config.ServerPort = port
	}
	config.BaseURL = strings.TrimSuffix(strings.TrimSpace(config.BaseURL), "/")
	config.RedisURL = strings.TrimSpace(config.RedisURL)
	config.RedisRateLimitPrefix = strings.TrimSpace(config.RedisRateLimitPrefix)
	if config.RedisRateLimitPrefix == "" {
		config.RedisRateLimitPrefix = "crowdfund:rate_limit"
	}
	if strings.TrimSpace(config.JWTSecret) == "" {
		config.JWTSecret = strings.TrimSpace(os.Getenv("SECRET_KEY"))
	}
	if config.TokenTTLHours <= 0 {
		config.TokenTTLHours = 24
	}
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = 16 * 1024 * 1024
	}
	if config.NGNPerUSDRate <= 0 {
		log.Printf("level=warn component=config msg=\"non-positive NGN_PER_USD_RATE; using default\" value=%f", config.NGNPerUSDRate)
		config.NGNPerUSDRate = 1500.0
	}
	if config.SelfPingIntervalMin <= 0 {
		config.SelfPingIntervalMin = 10
	}
	if config.SelfPingURL == "" {
		config.SelfPingURL = config.BaseURL + "/health"
	}
	if config.LoginRateLimitPerMin <= 0 {
		config.LoginRateLimitPerMin = 10
	}
	if config.DonateRateLimitPerMin <= 0 {
		config.DonateRateLimitPerMin = 30
	}
	if config.MailDefaultSender == "" {
		config.MailDefaultSender = config.MailUsername
	}

	return
}
