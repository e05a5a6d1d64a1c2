package toolchain

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"inoflash/internal/execx"
)

// DefaultInstallerURL is the official arduino-cli installer script.
const DefaultInstallerURL = "https://raw.githubusercontent.com/arduino/arduino-cli/master/install.sh"

// Install downloads the installer script and runs it with BINDIR pointed at
// opts.BinDir, so nothing outside that directory is touched.
func Install(ctx context.Context, runner execx.Runner, opts Options) error {
	url := opts.InstallerURL
	if url == "" {
		url = DefaultInstallerURL
	}
	if opts.BinDir == "" {
		return fmt.Errorf("install target bin dir not set")
	}
	if err := os.MkdirAll(opts.BinDir, 0o755); err != nil {
		return fmt.Errorf("prepare bin dir: %w", err)
	}

	opts.logf("downloading installer from %s", url)
	scriptPath, err := downloadInstaller(ctx, url)
	if err != nil {
		return err
	}
	defer os.Remove(scriptPath)

	result, err := runner.Run(ctx, "sh", []string{scriptPath}, execx.RunOptions{
		Env: []string{"BINDIR=" + opts.BinDir},
	})
	if err != nil {
		return fmt.Errorf("run installer (exit %d): %w\n%s", result.ExitCode, err, result.Combined())
	}
	opts.logf("installer finished")
	return nil
}

func downloadInstaller(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "inoflash/1.0")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("download %s: unexpected status %s", url, resp.Status)
	}

	tmpFile, err := os.CreateTemp("", "arduino-cli-install-*.sh")
	if err != nil {
		return "", fmt.Errorf("create temp script: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("write temp script: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("close temp script: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o755); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("chmod temp script: %w", err)
	}

	return filepath.Clean(tmpPath), nil
}
