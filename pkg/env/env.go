// Package env reads single environment variables for the few settings needed
// before the envconfig-backed config is available, such as the log format.
package env

import (
	"os"
	"strings"
)

const prefix = "QUICKKART_"

// Get resolves key from the environment, preferring the QUICKKART_-prefixed
// form so ad-hoc settings follow the same convention as the main config.
// Blank values fall through to the fallback.
func Get(key, fallback string) string {
	for _, candidate := range []string{prefix + key, key} {
		if val, ok := os.LookupEnv(candidate); ok {
			if trimmed := strings.TrimSpace(val); trimmed != "" {
				return trimmed
			}
		}
	}
	return fallback
}
