package util

import (
	"os"
	"strconv"
	"time"
)

// GetEnv returns the value of the given environment variable or the
// provided default if it is unset.
func GetEnv(key string, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

func GetEnvAsInt(key string, defaultVal int) int {
	strVal, ok := os.LookupEnv(key)
	if !ok {
		return defaultVal
	}

	val, err := strconv.Atoi(strVal)
	if err != nil {
		return defaultVal
	}

	return val
}

func GetEnvAsBool(key string, defaultVal bool) bool {
	strVal, ok := os.LookupEnv(key)
	if !ok {
		return defaultVal
	}

	val, err := strconv.ParseBool(strVal)
	if err != nil {
		return defaultVal
	}

	return val
}

func GetEnvAsFloat64(key string, defaultVal float64) float64 {
	strVal, ok := os.LookupEnv(key)
	if !ok {
		return defaultVal
	}

	val, err := strconv.ParseFloat(strVal, 64)
	if err != nil {
		return defaultVal
	}

	return val
}

// GetEnvAsDuration parses the variable with time.ParseDuration (e.g. "2m", "30s").
func GetEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	strVal, ok := os.LookupEnv(key)
	if !ok {
		return defaultVal
	}

	val, err := time.ParseDuration(strVal)
	if err != nil {
		return defaultVal
	}

	return val
}
