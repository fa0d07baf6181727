package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Booking  BookingConfig
	Loyalty  LoyaltyConfig
	Payment  PaymentConfig
	Redis    RedisConfig
	AMQP     AMQPConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type BookingConfig struct {
	// HoldMinutes is how long an unpaid PENDING booking keeps its seats.
	HoldMinutes int
	// SweepIntervalSeconds is the expiry sweeper cycle.
	SweepIntervalSeconds int
	// SweepBatchSize bounds how many bookings one sweep cycle expires.
	SweepBatchSize int
}

type LoyaltyConfig struct {
	// EarnRate is points earned per currency unit spent.
	EarnRate string
	// RedeemRate is points needed per currency unit of discount.
	RedeemRate string
	// Tier thresholds are cumulative total_spent amounts.
	SilverThreshold   string
	GoldThreshold     string
	PlatinumThreshold string
	// PointsExpiryDays is how long earned points live; 0 disables expiry.
	PointsExpiryDays int
}

type PaymentConfig struct {
	ProviderRetries    int
	RetryBaseDelayMs   int
	CallbackTimeoutSec int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AMQPConfig struct {
	URL string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("BOOKING_HOLD_MINUTES", 15)
	viper.SetDefault("SWEEP_INTERVAL_SECONDS", 60)
	viper.SetDefault("SWEEP_BATCH_SIZE", 100)
	viper.SetDefault("LOYALTY_EARN_RATE", "0.01")
	viper.SetDefault("LOYALTY_REDEEM_RATE", "10")
	viper.SetDefault("LOYALTY_SILVER_THRESHOLD", "1000000")
	viper.SetDefault("LOYALTY_GOLD_THRESHOLD", "5000000")
	viper.SetDefault("LOYALTY_PLATINUM_THRESHOLD", "20000000")
	viper.SetDefault("LOYALTY_POINTS_EXPIRY_DAYS", 365)
	viper.SetDefault("PAYMENT_PROVIDER_RETRIES", 3)
	viper.SetDefault("PAYMENT_RETRY_BASE_DELAY_MS", 200)
	viper.SetDefault("PAYMENT_CALLBACK_TIMEOUT_SEC", 10)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Booking: BookingConfig{
			HoldMinutes:          viper.GetInt("BOOKING_HOLD_MINUTES"),
			SweepIntervalSeconds: viper.GetInt("SWEEP_INTERVAL_SECONDS"),
			SweepBatchSize:       viper.GetInt("SWEEP_BATCH_SIZE"),
		},
		Loyalty: LoyaltyConfig{
			EarnRate:          viper.GetString("LOYALTY_EARN_RATE"),
			RedeemRate:        viper.GetString("LOYALTY_REDEEM_RATE"),
			SilverThreshold:   viper.GetString("LOYALTY_SILVER_THRESHOLD"),
			GoldThreshold:     viper.GetString("LOYALTY_GOLD_THRESHOLD"),
			PlatinumThreshold: viper.GetString("LOYALTY_PLATINUM_THRESHOLD"),
			PointsExpiryDays:  viper.GetInt("LOYALTY_POINTS_EXPIRY_DAYS"),
		},
		Payment: PaymentConfig{
			ProviderRetries:    viper.GetInt("PAYMENT_PROVIDER_RETRIES"),
			RetryBaseDelayMs:   viper.GetInt("PAYMENT_RETRY_BASE_DELAY_MS"),
			CallbackTimeoutSec: viper.GetInt("PAYMENT_CALLBACK_TIMEOUT_SEC"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASS"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		AMQP: AMQPConfig{
			URL: viper.GetString("AMQP_URL"),
		},
	}

	return config, nil
}
