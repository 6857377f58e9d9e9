package xdg

import (
	"os"
	"path/filepath"
)

// XDGDirs resolves the XDG base directories the judge stores its files in.
type XDGDirs struct {
	dataHome   string
	configHome string
	runtimeDir string
}

// NewXDGDirs reads the XDG variables, falling back to the defaults of the
// base directory specification.
func NewXDGDirs() *XDGDirs {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv("HOME")
		if homeDir == "" {
			homeDir = os.TempDir()
		}
	}

	xdg := &XDGDirs{
		dataHome:   os.Getenv("XDG_DATA_HOME"),
		configHome: os.Getenv("XDG_CONFIG_HOME"),
		runtimeDir: os.Getenv("XDG_RUNTIME_DIR"),
	}
	if xdg.dataHome == "" {
		xdg.dataHome = filepath.Join(homeDir, ".local", "share")
	}
	if xdg.configHome == "" {
		xdg.configHome = filepath.Join(homeDir, ".config")
	}
	if xdg.runtimeDir == "" {
		xdg.runtimeDir = filepath.Join(os.TempDir(), "judge-runtime-"+os.Getenv("USER"))
	}
	return xdg
}

// AppDataDir returns the application-specific data directory
func (x *XDGDirs) AppDataDir(appName string) string {
	return filepath.Join(x.dataHome, appName)
}

// AppConfigDir returns the application-specific config directory
func (x *XDGDirs) AppConfigDir(appName string) string {
	return filepath.Join(x.configHome, appName)
}

// AppRuntimeDir returns the application-specific runtime directory
func (x *XDGDirs) AppRuntimeDir(appName string) string {
	return filepath.Join(x.runtimeDir, appName)
}

