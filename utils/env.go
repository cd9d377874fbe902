package utils

import "guidely/config"

// IsProduction reports whether the service runs with a production config.
func IsProduction() bool {
	return config.IsProduction()
}
