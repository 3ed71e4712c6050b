package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// NotifierWorkers sizes the confirmation email dispatcher pool.
	NotifierWorkers int `env:"NOTIFIER_WORKERS, default=4"`

	Token TokenConfig
	Mongo MongoConfig
	Redis RedisConfig
}

// TokenConfig selects the identity token key scheme. With HS256 only Secret
// is read; with RS256 the PEM key files are read instead, and a deployment
// that only verifies tokens may omit the private key file.
type TokenConfig struct {
	Alg            string `env:"TOKEN_ALG,              default=HS256"`
	Secret         string `env:"TOKEN_SECRET"`
	PrivateKeyFile string `env:"TOKEN_PRIVATE_KEY_FILE"`
	PublicKeyFile  string `env:"TOKEN_PUBLIC_KEY_FILE"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=salon_booking"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
