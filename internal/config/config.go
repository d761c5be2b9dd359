package config

import (
	"os"
	"path/filepath"
)

type Config struct {
	ListenAddr    string
	DataDir       string
	InventoryFile string
	ArchiveFile   string
	HistoryFile   string
	LogLevel      string
	LogFile       string
}

func Load() *Config {
	dataDir := getEnv("DATA_DIR", "data")
	return &Config{
		ListenAddr:    getEnv("LISTEN_ADDR", ":8000"),
		DataDir:       dataDir,
		InventoryFile: getEnv("INVENTORY_FILE", filepath.Join(dataDir, "ml_robot_updated.json")),
		ArchiveFile:   getEnv("ARCHIVE_FILE", filepath.Join(dataDir, "product_archive.json")),
		HistoryFile:   getEnv("HISTORY_FILE", filepath.Join(dataDir, "relocation_history.json")),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFile:       getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}
