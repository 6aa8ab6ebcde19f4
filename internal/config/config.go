package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

var ErrInvalidConfig = errors.New("invalid configuration")

const (
	StoreNone  = "none"
	StoreFile  = "file"
	StoreMongo = "mongo"
)

type Configuration struct {
	Server struct {
		Host         string `envconfig:"SERVER_HOST"`
		Port         string `envconfig:"SERVER_PORT" default:"3000"`
		AllowOrigins string `envconfig:"ALLOW_ORIGINS" default:"http://localhost:5173"`
	}
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Store    struct {
		Kind string `envconfig:"STORE_KIND" default:"none"`
		Dir  string `envconfig:"STORE_DIR" default:"./data"`
	}
	Database struct {
		Address      string `envconfig:"MONGO_ADDRESS" default:"mongodb://localhost:27017"`
		DatabaseName string `envconfig:"MONGO_DATABASE" default:"twochess"`
		Collection   string `envconfig:"MONGO_COLLECTION" default:"games"`
	}
	Matchmaking struct {
		Interval time.Duration `envconfig:"MATCHMAKING_INTERVAL" default:"1s"`
	}
}

// InitConfig reads the configuration from the environment.
func InitConfig() (*Configuration, error) {
	config := &Configuration{}
	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Configuration) validate() error {
	switch c.Store.Kind {
	case StoreNone, StoreFile, StoreMongo:
	default:
		return fmt.Errorf("%w: unknown store kind %q", ErrInvalidConfig, c.Store.Kind)
	}
	if c.Matchmaking.Interval <= 0 {
		return fmt.Errorf("%w: matchmaking interval must be positive", ErrInvalidConfig)
	}
	return nil
}

// Address is the listen address for the HTTP server.
func (c *Configuration) Address() string {
	return c.Server.Host + ":" + c.Server.Port
}
