package config

import (
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/dmitrijs2005/tasktracker/internal/flagx"
	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// loadDotEnv copies variables from the -env-file path (or ./.env) into the
// process environment. Variables that are already set are left alone.
// A missing default file is not an error; a missing explicit one is.
func loadDotEnv() {
	path := flagx.EnvFileFlag()
	if path == "" {
		if _, err := os.Stat(defaultEnvFile); err != nil {
			return
		}
		path = defaultEnvFile
	}

	if err := godotenv.Load(path); err != nil {
		panic(err)
	}
}

// parseEnv overlays fields whose environment variable is set.
func parseEnv(config *Config) {
	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
