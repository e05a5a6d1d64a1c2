package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// GlobalDir returns the user-level inoflash directory (~/.inoflash).
// It creates the directory if it does not exist.
func GlobalDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("detect user home: %w", err)
	}
	dir := filepath.Join(home, ".inoflash")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create global dir: %w", err)
	}
	return dir, nil
}

// GlobalLogsDir returns the global logs directory (~/.inoflash/logs).
// It creates the directory if it does not exist.
func GlobalLogsDir() (string, error) {
	global, err := GlobalDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(global, "logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create global logs dir: %w", err)
	}
	return dir, nil
}

// GlobalBinDir returns the directory the on-demand installer targets
// (~/.inoflash/bin). It creates the directory if it does not exist.
func GlobalBinDir() (string, error) {
	global, err := GlobalDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(global, "bin")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create global bin dir: %w", err)
	}
	return dir, nil
}

// GlobalConfigFile returns the path of the user-level config file. The file
// itself may not exist.
func GlobalConfigFile() (string, error) {
	global, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(global, "config.yaml"), nil
}

// ProjectConfigFile returns the per-sketch config path inside the sketch dir.
func ProjectConfigFile(sketchDir string) string {
	return filepath.Join(sketchDir, "inoflash.yaml")
}

// LocalBinDir returns the project-local bin directory searched before PATH.
func LocalBinDir(sketchDir string) string {
	return filepath.Join(sketchDir, "bin")
}

// FileExists reports whether a path exists and is a regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// DirExists reports whether a path exists and is a directory.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
