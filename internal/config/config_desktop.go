// File: internal/config/config_desktop.go
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/berrythewa/linkforward/pkg/utils"
)

// getDesktopConfigPath returns the path to the config file on desktop platforms
func getDesktopConfigPath() (string, error) {
	// First check environment variable
	if path := os.Getenv("LINKFORWARD_CONFIG"); path != "" {
		return utils.ExpandPath(path), nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(configDir, "LinkForward", "config.yaml"), nil
	case "darwin":
		return filepath.Join(configDir, "com.berrythewa.linkforward", "config.yaml"), nil
	default: // Linux and others
		return filepath.Join(configDir, "linkforward", "config.yaml"), nil
	}
}
