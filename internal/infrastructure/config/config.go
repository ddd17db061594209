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

	Auth  AuthConfig
	CORS  CORSConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type AuthConfig struct {
	SecretKey        string `env:"SECRET_KEY"`
	JWTAlgorithm     string `env:"JWT_ALGORITHM,      default=HS256"`
	JWTExpireMinutes int    `env:"JWT_EXPIRE_MINUTES, default=30"`
	AdminEmail       string `env:"ADMIN_EMAIL,        default=admin@localhost"`
	AdminPassword    string `env:"ADMIN_PASSWORD"`
}

type CORSConfig struct {
	Origins []string `env:"CORS_ORIGINS, default=http://localhost"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=account_service"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
