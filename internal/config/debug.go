package config

import (
	"os"
	"strconv"
)

// IsDebug reports whether PARLEY_DEBUG asks for debug logging. Any value
// strconv.ParseBool accepts works; anything else means off.
func IsDebug() bool {
	on, err := strconv.ParseBool(os.Getenv("PARLEY_DEBUG"))
	return err == nil && on
}
