package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Session   SessionConfig
	Redis     RedisConfig
	Cart      CartConfig
	Booking   BookingConfig
	Payment   PaymentConfig
	Kafka     KafkaConfig
	Telemetry TelemetryConfig
	Auth      AuthConfig
	Admin     AdminConfig
	Display   DisplayConfig
}

type ServerConfig struct {
	Port            string
	Host            string
	Env             string
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

type DatabaseConfig struct {
	URL      string // Full database URL
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type SessionConfig struct {
	Secret string
	MaxAge int // seconds
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type CartConfig struct {
	Backend                string // memory or redis
	SurchargeRate          float64
	RevalidateStockOnMerge bool
	TTL                    time.Duration
}

type BookingConfig struct {
	CountdownSeconds int
	BookingFeeRate   float64
	RedirectDelay    time.Duration
	RedirectURL      string
	MaxSessions      int
}

type PaymentConfig struct {
	Gateway              string // simulator or stripe
	SimulatorSuccessRate float64
	SimulatorDelay       time.Duration
	StripeSecretKey      string
	StripePaymentMethod  string
	Currency             string
}

type KafkaConfig struct {
	Brokers  []string
	Topic    string
	ClientID string
}

type TelemetryConfig struct {
	Enabled       bool
	CollectorAddr string
	ServiceName   string
	SampleRatio   float64
}

type AuthConfig struct {
	JWTSecret string
}

type AdminConfig struct {
	BaseURL string
	Token   string
}

type DisplayConfig struct {
	CurrencySymbol string
}

// IsDevelopment reports whether the server runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// DSN returns the lib/pq connection string
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

func Load() (*Config, error) {
	// Load .env files if they exist (try .env.local first, then .env)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	config := &Config{
		Server: ServerConfig{
			Port:            v.GetString("PORT"),
			Host:            v.GetString("HOST"),
			Env:             v.GetString("ENV"),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
			AllowedOrigins:  splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Database: parseDatabaseConfig(v),
		Session: SessionConfig{
			Secret: v.GetString("SESSION_SECRET"),
			MaxAge: v.GetInt("SESSION_MAX_AGE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Cart: CartConfig{
			Backend:                strings.ToLower(v.GetString("CART_BACKEND")),
			SurchargeRate:          v.GetFloat64("CART_SURCHARGE_RATE"),
			RevalidateStockOnMerge: v.GetBool("CART_REVALIDATE_STOCK_ON_MERGE"),
			TTL:                    v.GetDuration("CART_TTL"),
		},
		Booking: BookingConfig{
			CountdownSeconds: v.GetInt("BOOKING_COUNTDOWN_SECONDS"),
			BookingFeeRate:   v.GetFloat64("BOOKING_FEE_RATE"),
			RedirectDelay:    v.GetDuration("BOOKING_REDIRECT_DELAY"),
			RedirectURL:      v.GetString("BOOKING_REDIRECT_URL"),
			MaxSessions:      v.GetInt("BOOKING_MAX_SESSIONS"),
		},
		Payment: PaymentConfig{
			Gateway:              strings.ToLower(v.GetString("PAYMENT_GATEWAY")),
			SimulatorSuccessRate: v.GetFloat64("PAYMENT_SIMULATOR_SUCCESS_RATE"),
			SimulatorDelay:       v.GetDuration("PAYMENT_SIMULATOR_DELAY"),
			StripeSecretKey:      v.GetString("STRIPE_SECRET_KEY"),
			StripePaymentMethod:  v.GetString("STRIPE_PAYMENT_METHOD"),
			Currency:             v.GetString("PAYMENT_CURRENCY"),
		},
		Kafka: KafkaConfig{
			Brokers:  splitList(v.GetString("KAFKA_BROKERS")),
			Topic:    v.GetString("KAFKA_TOPIC"),
			ClientID: v.GetString("KAFKA_CLIENT_ID"),
		},
		Telemetry: TelemetryConfig{
			Enabled:       v.GetBool("OTEL_ENABLED"),
			CollectorAddr: v.GetString("OTEL_COLLECTOR_ADDR"),
			ServiceName:   v.GetString("OTEL_SERVICE_NAME"),
			SampleRatio:   v.GetFloat64("OTEL_SAMPLE_RATIO"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("JWT_SECRET"),
		},
		Admin: AdminConfig{
			BaseURL: v.GetString("ADMIN_API_URL"),
			Token:   v.GetString("ADMIN_API_TOKEN"),
		},
		Display: DisplayConfig{
			CurrencySymbol: v.GetString("CURRENCY_SYMBOL"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("HOST", "localhost")
	v.SetDefault("ENV", "development")
	v.SetDefault("SHUTDOWN_TIMEOUT", "30s")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "happy_tails")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("SESSION_SECRET", "your-secret-key-change-in-production")
	v.SetDefault("SESSION_MAX_AGE", 30*24*60*60)

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("CART_BACKEND", "memory")
	v.SetDefault("CART_SURCHARGE_RATE", 0.04)
	v.SetDefault("CART_REVALIDATE_STOCK_ON_MERGE", false)
	v.SetDefault("CART_TTL", "720h")

	v.SetDefault("BOOKING_COUNTDOWN_SECONDS", 600)
	v.SetDefault("BOOKING_FEE_RATE", 0.10)
	v.SetDefault("BOOKING_REDIRECT_DELAY", "3s")
	v.SetDefault("BOOKING_REDIRECT_URL", "/")
	v.SetDefault("BOOKING_MAX_SESSIONS", 10000)

	v.SetDefault("PAYMENT_GATEWAY", "simulator")
	v.SetDefault("PAYMENT_SIMULATOR_SUCCESS_RATE", 0.9)
	v.SetDefault("PAYMENT_SIMULATOR_DELAY", "1500ms")
	v.SetDefault("STRIPE_PAYMENT_METHOD", "pm_card_visa")
	v.SetDefault("PAYMENT_CURRENCY", "INR")

	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "happy-tails.events")
	v.SetDefault("KAFKA_CLIENT_ID", "happy-tails")

	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_COLLECTOR_ADDR", "localhost:4317")
	v.SetDefault("OTEL_SERVICE_NAME", "happy-tails")
	v.SetDefault("OTEL_SAMPLE_RATIO", 1.0)

	v.SetDefault("JWT_SECRET", "your-secret-key-change-in-production")

	v.SetDefault("ADMIN_API_URL", "http://localhost:8080")
	v.SetDefault("CURRENCY_SYMBOL", "₹")
}

// Validate checks values that would otherwise fail later at runtime
func (c *Config) Validate() error {
	if port, err := strconv.Atoi(c.Server.Port); err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %s", c.Server.Port)
	}
	switch c.Cart.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported cart backend: %s", c.Cart.Backend)
	}
	if c.Cart.SurchargeRate < 0 {
		return fmt.Errorf("cart surcharge rate cannot be negative")
	}
	if c.Booking.CountdownSeconds <= 0 {
		return fmt.Errorf("booking countdown must be positive")
	}
	if c.Booking.BookingFeeRate < 0 {
		return fmt.Errorf("booking fee rate cannot be negative")
	}
	if c.Payment.SimulatorSuccessRate < 0 || c.Payment.SimulatorSuccessRate > 1 {
		return fmt.Errorf("simulator success rate must be between 0 and 1")
	}
	if c.Payment.Gateway == "stripe" && c.Payment.StripeSecretKey == "" {
		return fmt.Errorf("STRIPE_SECRET_KEY is required for the stripe gateway")
	}
	if c.Server.Env == "production" && c.Auth.JWTSecret == "your-secret-key-change-in-production" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	return nil
}

func parseDatabaseConfig(v *viper.Viper) DatabaseConfig {
	// Check if DATABASE_URL is provided
	if databaseURL := v.GetString("DATABASE_URL"); databaseURL != "" {
		return parseDatabaseURL(databaseURL)
	}

	// Fall back to individual environment variables
	return DatabaseConfig{
		Host:     v.GetString("DB_HOST"),
		Port:     v.GetInt("DB_PORT"),
		User:     v.GetString("DB_USER"),
		Password: v.GetString("DB_PASSWORD"),
		DBName:   v.GetString("DB_NAME"),
		SSLMode:  v.GetString("DB_SSLMODE"),
	}
}

func parseDatabaseURL(databaseURL string) DatabaseConfig {
	config := DatabaseConfig{
		URL: databaseURL,
	}

	u, err := url.Parse(databaseURL)
	if err != nil {
		// If parsing fails, return the URL as-is
		return config
	}

	config.Host = u.Hostname()
	if u.Port() != "" {
		config.Port, _ = strconv.Atoi(u.Port())
	} else {
		config.Port = 5432
	}

	if u.User != nil {
		config.User = u.User.Username()
		config.Password, _ = u.User.Password()
	}

	config.DBName = strings.TrimPrefix(u.Path, "/")

	config.SSLMode = u.Query().Get("sslmode")
	if config.SSLMode == "" {
		config.SSLMode = "disable"
	}

	return config
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
