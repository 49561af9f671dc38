package utils

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	PayPal   PayPalConfig
	Cache    CacheConfig
}

type AppConfig struct {
	Name           string
	Port           string
	Debug          bool
	LogPath        string
	ClientURL      string
	RequestTimeout time.Duration
}

type DatabaseConfig struct {
	Host        string
	Port        string
	Name        string
	User        string
	Password    string
	MaxConns    int32
	AutoMigrate bool
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

// PayPalConfig is handed to the payment gateway at construction.
type PayPalConfig struct {
	ClientID     string
	ClientSecret string
	Mode         string // sandbox | live
	Currency     string
	BrandName    string
	ReturnURL    string
	CancelURL    string
	Timeout      time.Duration
}

type CacheConfig struct {
	MaxSize int64
	TTL     time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "StayNest")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("CLIENT_URL", "http://localhost:8080")
	viper.SetDefault("REQUEST_TIMEOUT", "10s")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_AUTO_MIGRATE", false)
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("PAYPAL_MODE", "sandbox")
	viper.SetDefault("PAYPAL_CURRENCY", "USD")
	viper.SetDefault("PAYPAL_TIMEOUT", "15s")
	viper.SetDefault("CACHE_MAX_SIZE", 1000)
	viper.SetDefault("CACHE_TTL", "5m")

	// .env is optional, the process environment wins either way
	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	viper.AutomaticEnv()

	clientURL := viper.GetString("CLIENT_URL")
	brand := viper.GetString("PAYPAL_BRAND_NAME")
	if brand == "" {
		brand = viper.GetString("APP_NAME")
	}

	config := &Config{
		App: AppConfig{
			Name:           viper.GetString("APP_NAME"),
			Port:           viper.GetString("PORT"),
			Debug:          viper.GetBool("DEBUG"),
			LogPath:        viper.GetString("LOG_PATH"),
			ClientURL:      clientURL,
			RequestTimeout: viper.GetDuration("REQUEST_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Host:        viper.GetString("DB_HOST"),
			Port:        viper.GetString("DB_PORT"),
			Name:        viper.GetString("DB_NAME"),
			User:        viper.GetString("DB_USER"),
			Password:    viper.GetString("DB_PASS"),
			MaxConns:    viper.GetInt32("DB_MAX_CONNS"),
			AutoMigrate: viper.GetBool("DB_AUTO_MIGRATE"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: viper.GetInt("JWT_EXPIRY_HOURS"),
		},
		PayPal: PayPalConfig{
			ClientID:     viper.GetString("PAYPAL_CLIENT_ID"),
			ClientSecret: viper.GetString("PAYPAL_CLIENT_SECRET"),
			Mode:         viper.GetString("PAYPAL_MODE"),
			Currency:     viper.GetString("PAYPAL_CURRENCY"),
			BrandName:    brand,
			ReturnURL:    clientURL + "/api/payments/capture",
			CancelURL:    clientURL + "/api/payments/cancel",
			Timeout:      viper.GetDuration("PAYPAL_TIMEOUT"),
		},
		Cache: CacheConfig{
			MaxSize: viper.GetInt64("CACHE_MAX_SIZE"),
			TTL:     viper.GetDuration("CACHE_TTL"),
		},
	}

	if config.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return config, nil
}
