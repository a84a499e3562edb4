package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/nsukonny/ecurring-sync/internal/types"
	"github.com/nsukonny/ecurring-sync/internal/validator"
)

type Configuration struct {
	Server   ServerConfig   `validate:"required"`
	Logging  LoggingConfig  `validate:"required"`
	Postgres PostgresConfig `validate:"required"`
	Ecurring EcurringConfig `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// EcurringConfig holds the provider credentials and paging limits.
// The API key is injected here at process start instead of living in a
// shared mutable global.
type EcurringConfig struct {
	APIKey   string `validate:"required"`
	BaseURL  string `validate:"required"`
	PageSize int    `validate:"gt=0"`
	// MaxPages bounds directory pagination so a malformed server response
	// advertising a next link forever cannot loop us indefinitely.
	MaxPages int           `validate:"gt=0"`
	Timeout  time.Duration `validate:"gt=0"`
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/ecurring-sync")

	v.SetEnvPrefix("ECURRINGSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file if exists
	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", string(types.LogLevelInfo))
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("ecurring.baseurl", "https://api.ecurring.com")
	v.SetDefault("ecurring.pagesize", 100)
	v.SetDefault("ecurring.maxpages", 1000)
	v.SetDefault("ecurring.timeout", 30*time.Second)
}

func (c Configuration) Validate() error {
	return validator.ValidateStruct(c)
}

// GetDefaultConfig returns a default configuration for local development
// and tests; not used by the server binary.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Server:  ServerConfig{Address: ":8080"},
		Logging: LoggingConfig{Level: types.LogLevelDebug},
		Ecurring: EcurringConfig{
			APIKey:   "test-api-key",
			BaseURL:  "https://api.ecurring.com",
			PageSize: 100,
			MaxPages: 1000,
			Timeout:  30 * time.Second,
		},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}
