package config

import "os"

func IsDebug() bool {
	return os.Getenv("COUNSEL_DEBUG") == "1"
}
