package config

import (
	"os"
	"path/filepath"
)

type Config struct {
	ListenAddr string
	DataDir    string
	DBPath     string
	BookPath   string // overrides the stored "Book File" option when set
	OwnBook    string // "true"/"false" override for "OwnBook"
	LogLevel   string
}

func FromEnv() Config {
	dataDir := getenv("TETHYS_DATA_DIR", "./data")
	return Config{
		ListenAddr: getenv("TETHYS_LISTEN_ADDR", ":8080"),
		DataDir:    dataDir,
		DBPath:     getenv("TETHYS_DB_PATH", filepath.Join(dataDir, "tethys.sqlite")),
		BookPath:   os.Getenv("TETHYS_BOOK_PATH"),
		OwnBook:    os.Getenv("TETHYS_OWN_BOOK"),
		LogLevel:   getenv("TETHYS_LOG_LEVEL", "info"),
	}
}

func getenv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
