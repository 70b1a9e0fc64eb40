package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	defaultAppName  = "sysla"
	configFileName  = "config.toml"
	journalFileName = "journal.db"
)

// Paths locates the per-user files sysla owns on disk. The TOML config
// lives under the platform config root and the activity journal under
// the platform data root, each inside an app-named directory.
type Paths struct {
	ConfigPath  string
	DataDir     string
	JournalPath string
}

// Options defines optional settings for configuration.
type Options struct {
	AppName string
	DevMode bool
}

// appDirName is the directory name both roots share. Dev mode gets its
// own suffix so a dev build never touches the real config or journal.
func (o Options) appDirName() string {
	name := strings.TrimSpace(o.AppName)
	if name == "" {
		name = defaultAppName
	}
	if o.DevMode {
		name += "-dev"
	}
	return name
}

// DefaultPaths returns default paths.
func DefaultPaths() (Paths, error) {
	return DefaultPathsWithOptions(Options{})
}

// DefaultPathsWithOptions returns default paths with options.
func DefaultPathsWithOptions(opts Options) (Paths, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return Paths{}, fmt.Errorf("user config dir: %w", err)
	}
	homeDir := ""
	if runtime.GOOS == "linux" {
		homeDir, err = os.UserHomeDir()
		if err != nil {
			return Paths{}, fmt.Errorf("user home dir: %w", err)
		}
	}
	return PathsFor(runtime.GOOS, os.Getenv, configDir, homeDir, opts.appDirName())
}

// PathsFor resolves the config and journal locations for one platform.
// On linux the XDG variables override the defaults, on windows the
// AppData pair does. Everywhere else both files stay under the user
// config root.
func PathsFor(goos string, getenv func(string) string, userConfigDir, homeDir, appName string) (Paths, error) {
	appName = strings.TrimSpace(appName)
	if appName == "" {
		return Paths{}, errors.New("empty app name")
	}
	if userConfigDir == "" {
		return Paths{}, errors.New("empty user config dir")
	}
	if getenv == nil {
		getenv = func(string) string { return "" }
	}

	configBase := userConfigDir
	dataBase := userConfigDir

	switch goos {
	case "linux":
		if homeDir == "" {
			return Paths{}, errors.New("empty home dir")
		}
		dataBase = filepath.Join(homeDir, ".local", "share")
		if v := strings.TrimSpace(getenv("XDG_CONFIG_HOME")); v != "" {
			configBase = v
		}
		if v := strings.TrimSpace(getenv("XDG_DATA_HOME")); v != "" {
			dataBase = v
		}
	case "windows":
		if v := strings.TrimSpace(getenv("APPDATA")); v != "" {
			configBase = v
		}
		if v := strings.TrimSpace(getenv("LOCALAPPDATA")); v != "" {
			dataBase = v
		}
	default:
		// macOS and the rest keep everything under the user config root.
	}

	dataDir := filepath.Join(dataBase, appName)
	return Paths{
		ConfigPath:  filepath.Join(configBase, appName, configFileName),
		DataDir:     dataDir,
		JournalPath: filepath.Join(dataDir, journalFileName),
	}, nil
}
