// Package layout resolves the on-disk layout shared by the rovers components:
// an assets tree holding the logging configuration and a logs directory.
//
// The logging core only consumes these locations as plain paths; creating
// them is the job of Ensure, called by the init command.
package layout

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// HomeEnv overrides the layout root when set.
const HomeEnv = "ROVERS_HOME"

const (
	appName          = "rovers"
	assetsDirName    = "assets"
	loggerAssetsName = "common_logger"
	logsDirName      = "logs"
	configFileName   = "config.yaml"
)

// DefaultDirPerm is the permission used for directories created by Ensure.
const DefaultDirPerm = 0o755

// Layout is rooted at a single directory.
type Layout struct {
	Root string
}

// Default returns the layout rooted at $ROVERS_HOME, or <DataHome>/rovers.
// On Linux DataHome is ~/.local/share.
func Default() Layout {
	if root := os.Getenv(HomeEnv); root != "" {
		return Layout{Root: root}
	}
	return Layout{Root: filepath.Join(xdg.DataHome, appName)}
}

// AssetsDir returns <root>/assets.
func (l Layout) AssetsDir() string {
	return filepath.Join(l.Root, assetsDirName)
}

// LoggerAssetsDir returns the directory holding the logging configuration.
func (l Layout) LoggerAssetsDir() string {
	return filepath.Join(l.AssetsDir(), loggerAssetsName)
}

// ConfigPath returns the default logging configuration document path.
func (l Layout) ConfigPath() string {
	return filepath.Join(l.LoggerAssetsDir(), configFileName)
}

// LogDir returns <root>/logs.
func (l Layout) LogDir() string {
	return filepath.Join(l.Root, logsDirName)
}

// Ensure creates the assets and logs directories. It is idempotent.
func (l Layout) Ensure() error {
	for _, dir := range []string{l.LoggerAssetsDir(), l.LogDir()} {
		if err := os.MkdirAll(dir, DefaultDirPerm); err != nil {
			return err
		}
	}
	return nil
}
