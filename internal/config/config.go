package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	MongoURI       string        `mapstructure:"MONGO_URI" validate:"required"`
	MongoDatabase  string        `mapstructure:"MONGO_DATABASE" validate:"required"`
	JWTSecret      string        `mapstructure:"JWT_SECRET" validate:"required"`
	TokenTTL       time.Duration `mapstructure:"TOKEN_TTL" validate:"gt=0"`
	Port           string        `mapstructure:"API_PORT" validate:"required,numeric"`
	Env            string        `mapstructure:"ENV" validate:"oneof=development production test"`
	LogLevel       string        `mapstructure:"LOG_LEVEL" validate:"oneof=trace debug info warn error"`
	CORSOrigins    []string      `mapstructure:"CORS_ORIGINS" validate:"min=1"`
	KafkaBrokers   []string      `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic     string        `mapstructure:"KAFKA_BOOKING_TOPIC" validate:"required"`
	LockRedisURL   string        `mapstructure:"BOOKING_LOCK_REDIS_URL" validate:"omitempty,url"`
	BookingLockTTL time.Duration `mapstructure:"BOOKING_LOCK_TTL" validate:"gt=0"`
}

var keys = []string{
	"MONGO_URI", "MONGO_DATABASE", "JWT_SECRET", "TOKEN_TTL", "API_PORT", "ENV",
	"LOG_LEVEL", "CORS_ORIGINS", "KAFKA_BROKERS", "KAFKA_BOOKING_TOPIC",
	"BOOKING_LOCK_REDIS_URL", "BOOKING_LOCK_TTL",
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()
	return FromViper(viper.New())
}

// FromViper fills a Config from v after applying defaults and env bindings.
func FromViper(v *viper.Viper) (*Config, error) {
	v.SetDefault("MONGO_DATABASE", "doctors_portal")
	v.SetDefault("TOKEN_TTL", "1h")
	v.SetDefault("API_PORT", "5000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("KAFKA_BOOKING_TOPIC", "bookings")
	v.SetDefault("BOOKING_LOCK_TTL", "10s")

	v.AutomaticEnv()
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	cfg := &Config{
		MongoURI:       v.GetString("MONGO_URI"),
		MongoDatabase:  v.GetString("MONGO_DATABASE"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		TokenTTL:       v.GetDuration("TOKEN_TTL"),
		Port:           v.GetString("API_PORT"),
		Env:            strings.ToLower(v.GetString("ENV")),
		LogLevel:       strings.ToLower(v.GetString("LOG_LEVEL")),
		CORSOrigins:    splitList(v.GetString("CORS_ORIGINS")),
		KafkaBrokers:   splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:     v.GetString("KAFKA_BOOKING_TOPIC"),
		LockRedisURL:   v.GetString("BOOKING_LOCK_REDIS_URL"),
		BookingLockTTL: v.GetDuration("BOOKING_LOCK_TTL"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func (c *Config) BookingLockEnabled() bool {
	return c.LockRedisURL != ""
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
