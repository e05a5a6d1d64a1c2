package toolchain

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"inoflash/internal/execx"
	"inoflash/internal/paths"
)

// CoreID is the arduino-cli platform core the Nano target requires.
const CoreID = "arduino:avr"

// ErrUnavailable indicates arduino-cli could not be located or installed.
var ErrUnavailable = errors.New("arduino-cli unavailable")

type Source string

const (
	SourceUnknown Source = ""
	SourceLocal   Source = "local"
	SourceSystem  Source = "system"
)

// Handle is a resolved arduino-cli executable. Later stages receive it
// explicitly instead of relying on PATH state.
type Handle struct {
	Path    string `json:"path"`
	Version string `json:"version,omitempty"`
	Source  Source `json:"source"`
}

// Options configures resolution and the on-demand installer.
type Options struct {
	// BinDir is searched before PATH and is the installer target.
	BinDir string
	// AutoInstall enables the implicit first-run install when arduino-cli is
	// missing from BinDir and PATH.
	AutoInstall bool
	// InstallerURL overrides the official installer script location.
	InstallerURL string
	// Logf receives progress lines; nil disables them.
	Logf func(format string, args ...any)
}

func (o Options) logf(format string, args ...any) {
	if o.Logf != nil {
		o.Logf(format, args...)
	}
}

func executableName() string {
	if runtime.GOOS == "windows" {
		return "arduino-cli.exe"
	}
	return "arduino-cli"
}

// Test seam for PATH lookups.
var lookPath = exec.LookPath

// Resolve locates arduino-cli, installing it on demand when allowed, and
// probes its version.
func Resolve(ctx context.Context, runner execx.Runner, opts Options) (Handle, error) {
	if handle, ok := locate(opts.BinDir); ok {
		handle.Version = probeVersion(ctx, runner, handle.Path)
		return handle, nil
	}

	if !opts.AutoInstall {
		return Handle{}, fmt.Errorf("%w: not in %s or PATH (auto-install disabled)\n%s",
			ErrUnavailable, strings.Join(searchDirs(opts.BinDir), ", "), strings.Join(InstallHints(), "\n"))
	}

	opts.logf("arduino-cli not found, installing to %s", opts.BinDir)
	if err := Install(ctx, runner, opts); err != nil {
		return Handle{}, fmt.Errorf("%w: install failed: %v\n%s",
			ErrUnavailable, err, strings.Join(InstallHints(), "\n"))
	}

	if handle, ok := locate(opts.BinDir); ok {
		handle.Version = probeVersion(ctx, runner, handle.Path)
		return handle, nil
	}
	return Handle{}, fmt.Errorf("%w: installer finished but the binary is still missing\n%s",
		ErrUnavailable, strings.Join(InstallHints(), "\n"))
}

// Status resolves without installing, for `tools list` and doctor.
func Status(ctx context.Context, runner execx.Runner, binDir string) (Handle, bool) {
	handle, ok := locate(binDir)
	if !ok {
		return Handle{}, false
	}
	handle.Version = probeVersion(ctx, runner, handle.Path)
	return handle, true
}

func locate(binDir string) (Handle, bool) {
	for _, dir := range searchDirs(binDir) {
		candidate := filepath.Join(dir, executableName())
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return Handle{Path: candidate, Source: SourceLocal}, true
		}
	}

	if path, err := lookPath(executableName()); err == nil {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		return Handle{Path: abs, Source: SourceSystem}, true
	}

	return Handle{}, false
}

// searchDirs is the managed-binary search order: the configured bin dir
// first, then the shared ~/.inoflash/bin that `tools install` targets, so an
// explicit install serves every sketch.
func searchDirs(binDir string) []string {
	var dirs []string
	if binDir != "" {
		dirs = append(dirs, binDir)
	}
	if shared, err := paths.GlobalBinDir(); err == nil && shared != binDir {
		dirs = append(dirs, shared)
	}
	return dirs
}

// probeVersion runs `arduino-cli version` and extracts the version token.
// Best effort: an empty string is fine, the version is informational.
func probeVersion(ctx context.Context, runner execx.Runner, cliPath string) string {
	result, err := runner.Run(ctx, cliPath, []string{"version"}, execx.RunOptions{})
	if err != nil {
		return ""
	}
	return parseVersionLine(firstLine(strings.TrimSpace(string(result.Stdout))))
}

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return text[:idx]
	}
	return text
}

// parseVersionLine handles the `arduino-cli  Version: X.Y.Z Commit: ...`
// banner and falls back to the first field that looks like a version.
func parseVersionLine(line string) string {
	fields := strings.Fields(line)
	for i, f := range fields {
		if strings.EqualFold(strings.TrimSuffix(f, ":"), "version") && i+1 < len(fields) {
			return fields[i+1]
		}
	}
	if len(fields) >= 2 {
		return fields[1]
	}
	return ""
}
