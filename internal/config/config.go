package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	S3         S3Config         `mapstructure:"s3"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Membership MembershipConfig `mapstructure:"membership"`
	Admin      AdminConfig      `mapstructure:"admin"`
}

type AppConfig struct {
	Env string `mapstructure:"env"` // "production" switches to JSON logs and gin release mode
}

type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string        `mapstructure:"endpoint"`
	Region          string        `mapstructure:"region"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	BucketName      string        `mapstructure:"bucket_name"`
	UseSSL          bool          `mapstructure:"use_ssl"`
	PresignExpiry   time.Duration `mapstructure:"presign_expiry"`
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// MembershipConfig tunes the membership lifecycle rules.
type MembershipConfig struct {
	ExpiringThresholdDays int    `mapstructure:"expiring_threshold_days"`
	Timezone              string `mapstructure:"timezone"` // IANA name or "Local"
}

// AdminConfig seeds the first admin account. Leave the password empty to skip seeding.
type AdminConfig struct {
	Name     string `mapstructure:"name"`
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

// Enabled reports whether an admin account should be seeded at startup.
func (a AdminConfig) Enabled() bool {
	return a.Email != "" && a.Password != ""
}

// IsProduction reports whether the app runs with production settings.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production")
}

// Location resolves the timezone whose calendar day counts as "today".
func (m MembershipConfig) Location() (*time.Location, error) {
	if m.Timezone == "" || strings.EqualFold(m.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(m.Timezone)
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("jwt.secret must be set"))
	}
	if c.Database.URI == "" || c.Database.Name == "" {
		errs = append(errs, errors.New("database.uri and database.name must be set"))
	}
	if c.Membership.ExpiringThresholdDays <= 0 {
		errs = append(errs, fmt.Errorf("membership.expiring_threshold_days must be positive, got %d", c.Membership.ExpiringThresholdDays))
	}
	if _, err := c.Membership.Location(); err != nil {
		errs = append(errs, fmt.Errorf("membership.timezone: %w", err))
	}
	return errors.Join(errs...)
}

// LoadConfig reads configuration from file or environment variables.
// A missing config.yaml is not an error; defaults and env vars still apply.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS, jwt.expiration -> JWT_EXPIRATION
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	err = v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	// Duration strings ("60m", "1h") decode straight into time.Duration fields.
	err = v.Unmarshal(&config)
	if err != nil {
		return
	}

	return config, nil
}

// Every key gets a default so AutomaticEnv can override keys absent from the file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.shutdown_timeout", "5s")

	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "gym_admin")

	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "gym-admin")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("s3.presign_expiry", "15m")

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration", "12h")

	v.SetDefault("membership.expiring_threshold_days", 7)
	v.SetDefault("membership.timezone", "Local")

	v.SetDefault("admin.name", "Administrator")
	v.SetDefault("admin.email", "")
	v.SetDefault("admin.password", "")
}
