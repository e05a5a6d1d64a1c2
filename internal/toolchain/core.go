package toolchain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"inoflash/internal/execx"
)

// ErrCoreInstall indicates the arduino:avr core is missing and could not be
// installed.
var ErrCoreInstall = errors.New("arduino core install failed")

// CoreInstalled reports whether the AVR core is present.
func CoreInstalled(ctx context.Context, runner execx.Runner, cli Handle) (bool, error) {
	result, err := runner.Run(ctx, cli.Path, []string{"core", "list"}, execx.RunOptions{})
	if err != nil {
		return false, fmt.Errorf("arduino-cli core list (exit %d): %w\n%s", result.ExitCode, err, result.Combined())
	}
	return strings.Contains(string(result.Stdout), CoreID), nil
}

// EnsureCore installs the AVR core when `core list` does not report it.
func EnsureCore(ctx context.Context, runner execx.Runner, cli Handle, opts Options) error {
	installed, err := CoreInstalled(ctx, runner, cli)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCoreInstall, err)
	}
	if installed {
		return nil
	}

	opts.logf("%s core not found, installing", CoreID)
	result, err := runner.Run(ctx, cli.Path, []string{"core", "install", CoreID}, execx.RunOptions{})
	if err != nil {
		return fmt.Errorf("%w: exit %d\n%s", ErrCoreInstall, result.ExitCode, result.Combined())
	}
	opts.logf("%s core installed", CoreID)
	return nil
}
