package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full server configuration, populated from environment
// variables. The deployment variants differ only in these values.
type Config struct {
	ServerAddress  string   `env:"SERVER_ADDRESS" envDefault:":8080"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	MongoURI      string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"kebab"`

	// AuthBackend selects the identity provider: "firebase" (default) or
	// "local" for credential-free development.
	AuthBackend string `env:"AUTH_BACKEND" envDefault:"firebase"`

	FirebaseProjectID       string `env:"FIREBASE_PROJECT_ID"`
	FirebaseCredentialsFile string `env:"FIREBASE_CREDENTIALS_FILE"`
	FirebaseAPIKey          string `env:"FIREBASE_API_KEY"`
	StorageBucket           string `env:"STORAGE_BUCKET"`

	// Local backend settings.
	JWTSecret         string        `env:"JWT_SECRET" envDefault:"dev-secret-change-in-production"`
	JWTExpiration     time.Duration `env:"JWT_EXPIRATION" envDefault:"24h"`
	RefreshExpiration time.Duration `env:"REFRESH_EXPIRATION" envDefault:"720h"`
	DataDir           string        `env:"DATA_DIR" envDefault:"./data"`
	UploadDir         string        `env:"UPLOAD_DIR" envDefault:"./uploads"`

	MaxUploadSizeMB int64 `env:"MAX_UPLOAD_SIZE_MB" envDefault:"5"`
}

// Load parses the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// MaxUploadBytes is the avatar upload cap in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadSizeMB * 1024 * 1024
}
