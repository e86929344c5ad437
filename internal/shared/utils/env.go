package utils

import (
	"os"
	"strconv"
	"time"
)

func GetEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

// GetEnvInt falls back to defaultValue when the variable is unset or not an integer.
func GetEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(GetEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func GetEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(GetEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func GetEnvSeconds(key string, defaultSeconds int) time.Duration {
	return time.Duration(GetEnvInt(key, defaultSeconds)) * time.Second
}
