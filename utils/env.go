package utils

import (
	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

// LoadEnv loads .env and then .env.local, whose values take precedence.
// Missing files are skipped.
func LoadEnv(fs afero.Fs, logger hclog.Logger) {
	if ok, _ := afero.Exists(fs, ".env"); ok {
		if err := godotenv.Load(); err != nil {
			logger.Warn("could not load .env", "error", err)
		}
	} else {
		logger.Debug("no .env file found, continuing")
	}

	if ok, _ := afero.Exists(fs, ".env.local"); ok {
		if err := godotenv.Overload(".env.local"); err != nil {
			logger.Warn("could not load .env.local", "error", err)
		}
	}
}
