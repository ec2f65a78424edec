package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config interface {
	EnvConfig
	APIConfig
	StoreConfig
}

type EnvConfig interface {
	GetAppName() string
	GetLogLevel() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	API
	Store
}

// New loads any .env file found in the working directory and returns a
// Config that reads from the process environment.
func New() Config {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}
	return mainConfig{}
}

// NewFromFile loads the given env file, overriding existing variables.
func NewFromFile(path string) (Config, error) {
	if err := godotenv.Overload(path); err != nil {
		return nil, err
	}
	return mainConfig{}, nil
}
