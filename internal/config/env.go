package config

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/bootbuild/internal/logfields"
)

// envFiles are loaded in order; earlier files and the process environment win.
var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads the env files present in dir. Existing process
// environment variables are never overwritten.
func loadEnvFiles(dir string) {
	for _, name := range envFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			slog.Warn("Failed to load environment file", logfields.Path(path), logfields.Error(err))
			continue
		}
		slog.Debug("Loaded environment variables", logfields.Path(path))
	}
}
