// Package avr drives arduino-cli compile and upload for the Nano/CH340
// target. The board profile is pinned to the old-bootloader CPU variant; the
// clones this tool exists for will not flash with the default profile.
package avr

import (
	"context"
	"errors"
	"fmt"
	"io"

	"inoflash/internal/execx"
	"inoflash/internal/sketch"
	"inoflash/internal/toolchain"
)

// DefaultFQBN selects the Nano with the atmega328old bootloader, which CH340
// clone boards ship with. Compile and upload must use the same value or the
// artifact is not flash-compatible.
const DefaultFQBN = "arduino:avr:nano:cpu=atmega328old"

var (
	ErrCompile = errors.New("compile failed")
	ErrUpload  = errors.New("upload failed")
)

// Stage names the pipeline steps for logs and diagnostics.
type Stage string

const (
	StageTool    Stage = "tool"
	StageCore    Stage = "core"
	StageSketch  Stage = "sketch"
	StageCompile Stage = "compile"
	StagePort    Stage = "port"
	StageUpload  Stage = "upload"
	StageDone    Stage = "done"
)

// BuildResult captures one arduino-cli invocation verbatim.
type BuildResult struct {
	Output   string
	ExitCode int
}

// Options configures compile/upload invocations.
type Options struct {
	// FQBN overrides DefaultFQBN (config escape hatch).
	FQBN string
	// Stdout/Stderr receive the subprocess output live, in addition to the
	// captured BuildResult.
	Stdout io.Writer
	Stderr io.Writer
	// Logf receives the command line being run; nil disables it.
	Logf func(format string, args ...any)
}

func (o Options) fqbn() string {
	if o.FQBN != "" {
		return o.FQBN
	}
	return DefaultFQBN
}

func (o Options) logf(format string, args ...any) {
	if o.Logf != nil {
		o.Logf(format, args...)
	}
}

// Compile runs the compile subcommand. The tool's diagnostics are surfaced
// verbatim, never parsed.
func Compile(ctx context.Context, runner execx.Runner, cli toolchain.Handle, target sketch.Target, opts Options) (BuildResult, error) {
	args := []string{"compile", "--fqbn", opts.fqbn(), target.Dir}
	opts.logf("run: %s %v", cli.Path, args)

	result, err := runner.Run(ctx, cli.Path, args, execx.RunOptions{
		Stdout: opts.Stdout,
		Stderr: opts.Stderr,
	})
	build := BuildResult{Output: result.Combined(), ExitCode: result.ExitCode}
	if err != nil {
		return build, fmt.Errorf("%w: exit %d", ErrCompile, result.ExitCode)
	}
	return build, nil
}

// Upload flashes the previously compiled sketch to port.
func Upload(ctx context.Context, runner execx.Runner, cli toolchain.Handle, target sketch.Target, port string, opts Options) (BuildResult, error) {
	args := []string{"upload", "-p", port, "--fqbn", opts.fqbn(), target.Dir}
	opts.logf("run: %s %v", cli.Path, args)

	result, err := runner.Run(ctx, cli.Path, args, execx.RunOptions{
		Stdout: opts.Stdout,
		Stderr: opts.Stderr,
	})
	build := BuildResult{Output: result.Combined(), ExitCode: result.ExitCode}
	if err != nil {
		return build, fmt.Errorf("%w: exit %d", ErrUpload, result.ExitCode)
	}
	return build, nil
}
