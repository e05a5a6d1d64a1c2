package cli

import (
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"inoflash/internal/avr"
	"inoflash/internal/config"
	"inoflash/internal/logx"
	"inoflash/internal/paths"
	"inoflash/internal/ports"
	"inoflash/internal/sketch"
	"inoflash/internal/toolchain"
)

// runUpload is the pipeline behind `inoflash <sketch> [port]`:
// tool → core → compile → port → upload. Each stage failure is fatal and the
// underlying tool output is passed through verbatim.
func runUpload(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	// Sketch resolution happens before any subprocess runs.
	target, err := sketch.Resolve(args[0])
	if err != nil {
		return stageError(errOut, avr.StageSketch, err, nil)
	}

	explicitPort := ""
	if len(args) == 2 {
		explicitPort = args[1]
	}

	cfg, cfgErr := config.Load(target.Dir)
	if cfgErr != nil {
		fmt.Fprintln(errOut, yellowStyle.Render("warning:")+" "+cfgErr.Error())
	}
	if explicitPort == "" && cfg.Port != "" {
		explicitPort = cfg.Port
	}

	logger, closer := newPipelineLogger()
	if closer != nil {
		defer closer.Close()
	}
	logf := func(format string, args ...any) {
		logger.Printf(format, args...)
		if verbose {
			fmt.Fprintf(errOut, format+"\n", args...)
		}
	}
	logf("sketch %s (%s)", target.Name(), target.Dir)

	binDir := cfg.BinDir
	if binDir == "" {
		binDir = paths.LocalBinDir(target.Dir)
	}

	ctx := cmd.Context()

	logf("stage %s", avr.StageTool)
	cli, err := toolchain.Resolve(ctx, runner, toolchain.Options{
		BinDir:      binDir,
		AutoInstall: cfg.AutoInstallValue() && !noInstall,
		Logf:        logf,
	})
	if err != nil {
		return stageError(errOut, avr.StageTool, err, nil)
	}
	logf("using arduino-cli %s (%s, %s)", cli.Version, cli.Path, cli.Source)

	logf("stage %s", avr.StageCore)
	if err := toolchain.EnsureCore(ctx, runner, cli, toolchain.Options{Logf: logf}); err != nil {
		return stageError(errOut, avr.StageCore, err, nil)
	}

	buildOpts := avr.Options{
		FQBN:   cfg.FQBN,
		Stdout: out,
		Stderr: errOut,
		Logf:   logf,
	}

	logf("stage %s", avr.StageCompile)
	fmt.Fprintln(out, boldStyle.Render("Compiling")+" "+target.Name()+" (old bootloader profile)")
	if _, err := avr.Compile(ctx, runner, cli, target, buildOpts); err != nil {
		return stageError(errOut, avr.StageCompile, err, nil)
	}
	fmt.Fprintln(out, okMark("compile succeeded"))

	if compileOnly {
		logf("compile-only, skipping upload")
		fmt.Fprintln(out, "Compile-only mode: skipping upload")
		return nil
	}

	logf("stage %s", avr.StagePort)
	port := explicitPort
	if port != "" {
		if err := ports.Validate(port); err != nil {
			return stageError(errOut, avr.StagePort, err, nil)
		}
	} else {
		port, err = ports.Detect(cfg.CandidatePorts)
		if err != nil {
			return stageError(errOut, avr.StagePort, err, nil)
		}
	}
	logf("port %s", port)

	logf("stage %s", avr.StageUpload)
	fmt.Fprintln(out, boldStyle.Render("Uploading")+" to "+port)
	build, err := avr.Upload(ctx, runner, cli, target, port, buildOpts)
	if err != nil {
		return stageError(errOut, avr.StageUpload, err, avr.SyncHints(build.Output))
	}

	logf("stage %s", avr.StageDone)
	fmt.Fprintln(out, okMark("upload succeeded"))
	return nil
}

// stageError prints the one-line classification plus any troubleshooting
// hints, then returns the original error for the exit status. Raw tool output
// has already been streamed through, so it is not repeated here. The sentinel
// wrapped into err carries the taxonomy (sketch.ErrNotFound, ports.ErrNotFound,
// toolchain.ErrUnavailable, toolchain.ErrCoreInstall, avr.ErrCompile,
// avr.ErrUpload).
func stageError(w io.Writer, stage avr.Stage, err error, hints []string) error {
	fmt.Fprintf(w, "%s\n", failMark(fmt.Sprintf("[%s] %v", stage, err)))
	if len(hints) > 0 {
		fmt.Fprintln(w, "Troubleshooting:")
		for i, hint := range hints {
			fmt.Fprintf(w, "  %d. %s\n", i+1, hint)
		}
	}
	return err
}

func newPipelineLogger() (*log.Logger, io.Closer) {
	dir, err := paths.GlobalLogsDir()
	if err != nil {
		return logx.Discard(), nil
	}
	logger, closer, err := logx.New(dir)
	if err != nil {
		return logx.Discard(), nil
	}
	return logger, closer
}
