package config

import (
	"os"
	"path/filepath"
)

const (
	appNameVar       = "APP_NAME"
	credentialDirVar = "EVENTPASS_HOME"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "EventPass")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

// GetCredentialDir returns where the bearer token is persisted between runs.
func (EnvVars) GetCredentialDir() string {
	if dir := os.Getenv(credentialDirVar); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".eventpass"
	}
	return filepath.Join(home, ".eventpass")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
