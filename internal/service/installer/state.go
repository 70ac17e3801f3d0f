package installer

import "github.com/sandevgo/counsel/internal/config"

// InstallState accumulates the configuration the wizard collects; the
// final step serializes it to the runtime .env file via its env tags.
type InstallState struct {
	Env       config.AppConfig
	Providers []string
}

func NewInstallState() *InstallState {
	return &InstallState{}
}
