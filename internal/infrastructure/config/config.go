package config

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Session SessionConfig
	Admin   AdminConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type SessionConfig struct {
	// Backend selects the session store: "memory" (single process) or "redis".
	Backend string `env:"SESSION_BACKEND, default=memory"`
	// Timeout is the inactivity window after which a session expires.
	Timeout time.Duration `env:"SESSION_TIMEOUT, default=30m"`
	// CookieName names the HttpOnly session cookie.
	CookieName string `env:"SESSION_COOKIE_NAME, default=SESSION"`
	// CookieMaxAge bounds the cookie lifetime in seconds.
	CookieMaxAge int `env:"SESSION_COOKIE_MAX_AGE, default=1800"`
}

// AdminConfig seeds the bootstrap admin account on an empty store. Leaving
// the password unset skips the seed.
type AdminConfig struct {
	Name     string `env:"ADMIN_NAME, default=admin"`
	Password string `env:"ADMIN_PASSWORD"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=identity"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(log zerolog.Logger) *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		log.Error().Err(err).Msg("failed to load configuration")
		panic(err)
	}
	return &cfg
}
