package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Backends for the document store.
const (
	BackendFirestore = "firestore"
	BackendPostgres  = "postgres"
	BackendSQLite    = "sqlite"
	BackendMemory    = "memory"
)

// Auth providers.
const (
	AuthIdentityToolkit = "identitytoolkit"
	AuthLocal           = "local"
)

// Flag stores.
const (
	FlagStoreFile   = "file"
	FlagStoreRedis  = "redis"
	FlagStoreMemory = "memory"
)

// Config is the process configuration.
type Config struct {
	AppPort string

	Backend     string
	DatabaseDSN string

	FirebaseProjectID   string
	FirebaseCredentials string
	FirebaseAPIKey      string

	AuthProvider string
	JWTSecret    string

	RabbitMQURL string

	FlagStore    string
	FlagFilePath string
	RedisAddr    string

	LogLevel  string
	LogPretty bool

	ImageHost string
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("BACKEND", BackendMemory)
	v.SetDefault("DATABASE_DSN", "file:etalase.db?cache=shared")
	v.SetDefault("FIREBASE_PROJECT_ID", "")
	v.SetDefault("FIREBASE_CREDENTIALS", "")
	v.SetDefault("FIREBASE_API_KEY", "")
	v.SetDefault("AUTH_PROVIDER", AuthLocal)
	v.SetDefault("JWT_SECRET", "change-me")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("FLAG_STORE", FlagStoreFile)
	v.SetDefault("FLAG_FILE_PATH", "etalase-flags.json")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)
	v.SetDefault("IMAGE_HOST", "cloudinary.com")
}

// Load reads defaults, an optional config.yaml from the search paths, and the environment.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config file")
		}
	}

	cfg := FromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromViper copies the keys of v into a Config.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		AppPort:             v.GetString("APP_PORT"),
		Backend:             strings.ToLower(v.GetString("BACKEND")),
		DatabaseDSN:         v.GetString("DATABASE_DSN"),
		FirebaseProjectID:   v.GetString("FIREBASE_PROJECT_ID"),
		FirebaseCredentials: v.GetString("FIREBASE_CREDENTIALS"),
		FirebaseAPIKey:      v.GetString("FIREBASE_API_KEY"),
		AuthProvider:        strings.ToLower(v.GetString("AUTH_PROVIDER")),
		JWTSecret:           v.GetString("JWT_SECRET"),
		RabbitMQURL:         v.GetString("RABBITMQ_URL"),
		FlagStore:           strings.ToLower(v.GetString("FLAG_STORE")),
		FlagFilePath:        v.GetString("FLAG_FILE_PATH"),
		RedisAddr:           v.GetString("REDIS_ADDR"),
		LogLevel:            v.GetString("LOG_LEVEL"),
		LogPretty:           v.GetBool("LOG_PRETTY"),
		ImageHost:           v.GetString("IMAGE_HOST"),
	}
}

// Validate rejects unknown choices and missing credentials.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendFirestore:
		if c.FirebaseProjectID == "" {
			return errors.New("FIREBASE_PROJECT_ID is required for the firestore backend")
		}
	case BackendPostgres, BackendSQLite:
		if c.DatabaseDSN == "" {
			return errors.Errorf("DATABASE_DSN is required for the %s backend", c.Backend)
		}
	case BackendMemory:
	default:
		return errors.Errorf("unknown BACKEND %q", c.Backend)
	}

	switch c.AuthProvider {
	case AuthIdentityToolkit:
		if c.FirebaseAPIKey == "" {
			return errors.New("FIREBASE_API_KEY is required for the identitytoolkit auth provider")
		}
	case AuthLocal:
		if c.Backend == BackendFirestore {
			return errors.New("the local auth provider needs a relational or memory backend")
		}
		if c.JWTSecret == "" {
			return errors.New("JWT_SECRET is required for the local auth provider")
		}
	default:
		return errors.Errorf("unknown AUTH_PROVIDER %q", c.AuthProvider)
	}

	switch c.FlagStore {
	case FlagStoreFile:
		if c.FlagFilePath == "" {
			return errors.New("FLAG_FILE_PATH is required for the file flag store")
		}
	case FlagStoreRedis:
		if c.RedisAddr == "" {
			return errors.New("REDIS_ADDR is required for the redis flag store")
		}
	case FlagStoreMemory:
	default:
		return errors.Errorf("unknown FLAG_STORE %q", c.FlagStore)
	}
	return nil
}
