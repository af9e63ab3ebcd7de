package env

import "os"

// Get reads an environment variable, returning fallback when the variable is
// unset or empty. Empty values count as unset so that blank entries in an
// .env file do not shadow the default.
func Get(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
