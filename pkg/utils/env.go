package utils

import "os"

// ParseWithFallback reads an env var, falling back when it is unset or empty.
func ParseWithFallback(envName string, fallback string) string {
	if value, ok := os.LookupEnv(envName); ok && value != "" {
		return value
	}

	return fallback
}
