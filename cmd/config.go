package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"parceltrack/internal/adapters/out/postgres"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort string `mapstructure:"HTTP_PORT"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSslMode  string `mapstructure:"DB_SSLMODE"`

	JWTSecret      string   `mapstructure:"JWT_SECRET"`
	AllowedOrigins []string `mapstructure:"ALLOWED_ORIGINS"`

	AWSRegion       string `mapstructure:"AWS_REGION"`
	EmailFrom       string `mapstructure:"EMAIL_FROM"`
	SMSGatewayURL   string `mapstructure:"SMS_GATEWAY_URL"`
	SMSGatewayToken string `mapstructure:"SMS_GATEWAY_TOKEN"`

	NATSURL              string        `mapstructure:"NATS_URL"`
	LiveIdleTimeout      time.Duration `mapstructure:"LIVE_IDLE_TIMEOUT"`
	LiveSessionBuffer    int           `mapstructure:"LIVE_SESSION_BUFFER"`
	SessionSweepSchedule string        `mapstructure:"SESSION_SWEEP_SCHEDULE"`
}

var defaults = map[string]any{
	"HTTP_PORT":              "8080",
	"LOG_LEVEL":              "info",
	"DB_HOST":                "localhost",
	"DB_PORT":                "5432",
	"DB_USER":                "postgres",
	"DB_PASSWORD":            "",
	"DB_NAME":                "parceltrack",
	"DB_SSLMODE":             "disable",
	"JWT_SECRET":             "",
	"ALLOWED_ORIGINS":        []string{},
	"AWS_REGION":             "us-east-1",
	"EMAIL_FROM":             "",
	"SMS_GATEWAY_URL":        "",
	"SMS_GATEWAY_TOKEN":      "",
	"NATS_URL":               "",
	"LIVE_IDLE_TIMEOUT":      "2m",
	"LIVE_SESSION_BUFFER":    64,
	"SESSION_SWEEP_SCHEDULE": "*/30 * * * * *",
}

// LoadConfig reads envFile into the environment when it exists, then binds
// every key from the environment on top of the defaults.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Validate reports settings the server cannot start without.
func (c Config) Validate() error {
	var errList []error
	if c.JWTSecret == "" {
		errList = append(errList, errors.New("JWT_SECRET is required"))
	}
	if c.HTTPPort == "" {
		errList = append(errList, errors.New("HTTP_PORT is required"))
	}
	if c.LiveIdleTimeout <= 0 {
		errList = append(errList, errors.New("LIVE_IDLE_TIMEOUT must be positive"))
	}
	return errors.Join(errList...)
}

func (c Config) Database() postgres.Settings {
	return postgres.Settings{
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		Name:     c.DBName,
		SSLMode:  c.DBSslMode,
	}
}
