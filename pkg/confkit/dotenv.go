package confkit

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
)

const maxDotenvDepth = 8

var dotenvOnce sync.Once

// LoadDotenvOnce loads a .env file into the process environment. ENV_FILE
// names an explicit file; otherwise the working directory and its parents are
// searched up to the module root. NO_DOTENV=1 disables loading and
// DOTENV_OVERLOAD=1 lets the file win over variables that are already set.
func LoadDotenvOnce() {
	dotenvOnce.Do(loadDotenv)
}

func loadDotenv() {
	if os.Getenv("NO_DOTENV") == "1" {
		return
	}

	load := godotenv.Load
	if os.Getenv("DOTENV_OVERLOAD") == "1" {
		load = godotenv.Overload
	}

	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		_ = load(envFile)
		return
	}

	dir, err := os.Getwd()
	if err != nil {
		_ = load()
		return
	}
	for i := 0; i < maxDotenvDepth; i++ {
		if candidate := filepath.Join(dir, ".env"); fileExists(candidate) {
			_ = load(candidate)
			return
		}
		if fileExists(filepath.Join(dir, "go.mod")) {
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

func fileExists(p string) bool {
	if p == "" {
		return false
	}
	_, err := os.Stat(p)
	return err == nil
}
