package config

import "os"

type Config struct {
	Addr          string // API bind address, e.g. "127.0.0.1:8000"
	LogDir        string // logs directory
	DBPath        string // sqlite database file
	EndpointsPath string // endpoints JSON file
	WebDir        string // static dashboard root; empty disables serving
}

func FromEnv() Config {
	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = "127.0.0.1:8000"
	}

	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "data/monitor.db"
	}

	endpointsPath := os.Getenv("ENDPOINTS_PATH")
	if endpointsPath == "" {
		endpointsPath = "config/endpoints.json"
	}

	// Empty means API-only, no dashboard.
	webDir := os.Getenv("WEB_DIR")

	return Config{
		Addr:          addr,
		LogDir:        logDir,
		DBPath:        dbPath,
		EndpointsPath: endpointsPath,
		WebDir:        webDir,
	}
}
