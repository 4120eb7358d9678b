package config

import "time"

type Config interface {
	GetAppName() string
	GetBaseURL() string
	GetDataFolder() string
	GetHTTPTimeout() time.Duration
	GetLogLevel() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
}

func New() Config {
	return mainConfig{}
}
