package config

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	Auth     Auth
	Stripe   Stripe
	Mail     Mail
	Payments Payments
	Quiz     Quiz
	LogLevel string
	AppURL   string
}

type Server struct {
	Port        string
	GinMode     string
	CORSOrigins []string
}

type Database struct {
	Driver   string // "postgres" or "sqlite"
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	DSN      string // sqlite file / full DSN override
}

// Auth holds the settings for verifying access tokens minted by the hosted auth provider.
type Auth struct {
	JWTSecret string
	Issuer    string
}

type Stripe struct {
	SecretKey        string
	WebhookSecret    string
	APIBase          string
	WebhookTolerance time.Duration
	Currency         string
}

type Mail struct {
	SendGridAPIKey string
	FromAddress    string
	FromName       string
}

type Payments struct {
	PendingTTL time.Duration
	SweepSpec  string
	// EventLease is how long a webhook delivery may hold an event before a
	// redelivery is allowed to take it over.
	EventLease time.Duration
}

type Quiz struct {
	PassingScore int
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Server.GinMode = viper.GetString("GIN_MODE")
	config.Server.CORSOrigins = splitCSV(viper.GetString("CORS_ALLOW_ORIGINS"))

	config.Database.Driver = viper.GetString("DATABASE_DRIVER")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")
	config.Database.SSLMode = viper.GetString("DATABASE_SSLMODE")
	config.Database.DSN = viper.GetString("DATABASE_DSN")

	config.Auth.JWTSecret = viper.GetString("AUTH_JWT_SECRET")
	config.Auth.Issuer = viper.GetString("AUTH_JWT_ISSUER")

	config.Stripe.SecretKey = viper.GetString("STRIPE_SECRET_KEY")
	config.Stripe.WebhookSecret = viper.GetString("STRIPE_WEBHOOK_SECRET")
	config.Stripe.APIBase = viper.GetString("STRIPE_API_BASE")
	config.Stripe.WebhookTolerance = viper.GetDuration("STRIPE_WEBHOOK_TOLERANCE")
	config.Stripe.Currency = viper.GetString("STRIPE_CURRENCY")

	config.Mail.SendGridAPIKey = viper.GetString("SENDGRID_API_KEY")
	config.Mail.FromAddress = viper.GetString("MAIL_FROM_ADDRESS")
	config.Mail.FromName = viper.GetString("MAIL_FROM_NAME")

	config.Payments.PendingTTL = viper.GetDuration("PAYMENT_PENDING_TTL")
	config.Payments.SweepSpec = viper.GetString("PAYMENT_SWEEP_SPEC")
	config.Payments.EventLease = viper.GetDuration("PAYMENT_EVENT_LEASE")

	config.Quiz.PassingScore = viper.GetInt("QUIZ_PASSING_SCORE")
	config.LogLevel = viper.GetString("LOG_LEVEL")
	config.AppURL = strings.TrimSuffix(viper.GetString("APP_URL"), "/")

	log.Info().
		Str("port", config.Server.Port).
		Str("db_driver", config.Database.Driver).
		Str("db_host", config.Database.Host).
		Str("stripe_api", config.Stripe.APIBase).
		Bool("mail_enabled", config.Mail.SendGridAPIKey != "").
		Msg("Config loaded")
	return &config, nil
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("CORS_ALLOW_ORIGINS", "*")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_PORT", "5432")
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("DATABASE_DSN", "learnhub.db")
	viper.SetDefault("STRIPE_API_BASE", "https://api.stripe.com")
	viper.SetDefault("STRIPE_WEBHOOK_TOLERANCE", "5m")
	viper.SetDefault("STRIPE_CURRENCY", "usd")
	viper.SetDefault("MAIL_FROM_NAME", "Learnhub")
	viper.SetDefault("PAYMENT_PENDING_TTL", "24h")
	viper.SetDefault("PAYMENT_SWEEP_SPEC", "@every 15m")
	viper.SetDefault("PAYMENT_EVENT_LEASE", "10m")
	viper.SetDefault("QUIZ_PASSING_SCORE", 70)
	viper.SetDefault("APP_URL", "http://localhost:3000")
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
