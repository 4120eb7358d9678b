package config

import (
	"os"
	"strconv"
	"time"
)

const (
	appNameVar     = "APP_NAME"
	baseURLVar     = "STOREFRONT_API_URL"
	folderEnvVar   = "FOLDER"
	httpTimeoutVar = "HTTP_TIMEOUT_SECONDS"
	logLevelVar    = "LOG_LEVEL"
)

type EnvVars struct{}

var _ Config = mainConfig{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Storefront")
}

// GetBaseURL returns the base URL of the storefront REST backend. All request
// paths are resolved relative to it.
func (EnvVars) GetBaseURL() string {
	return GetEnv(baseURLVar, "http://localhost:8000/api/")
}

// GetDataFolder returns the folder holding durable client state (stored
// tokens, language preference).
func (EnvVars) GetDataFolder() string {
	return GetEnv(folderEnvVar, "./data")
}

func (EnvVars) GetHTTPTimeout() time.Duration {
	seconds, err := strconv.Atoi(GetEnv(httpTimeoutVar, "15"))
	if err != nil || seconds <= 0 {
		seconds = 15
	}
	return time.Duration(seconds) * time.Second
}

func (EnvVars) GetLogLevel() string {
	return GetEnv(logLevelVar, "info")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
