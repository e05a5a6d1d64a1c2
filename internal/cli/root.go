package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"inoflash/internal/execx"
)

var (
	outputJSON bool
	verbose    bool
	noInstall  bool

	compileOnly bool
)

// runner is the subprocess seam; tests swap in fakes.
var runner execx.Runner = execx.CmdRunner{}

// Execute runs the root cobra command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inoflash <sketch_path> [port]",
		Short: "Compile and flash Arduino sketches to Nano CH340 clone boards",
		Long: `inoflash compiles an Arduino sketch and flashes it to an Arduino Nano
with a CH340 USB-serial clone chip, using arduino-cli with the old-bootloader
board profile those clones require. arduino-cli and the arduino:avr core are
installed on demand.`,
		Args:          cobra.RangeArgs(1, 2),
		RunE:          runUpload,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output machine-readable JSON where supported")
	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Echo subprocess command lines")
	cmd.PersistentFlags().BoolVar(&noInstall, "no-install", false, "Never install arduino-cli or cores implicitly")

	cmd.Flags().BoolVar(&compileOnly, "compile-only", false, "Stop after compiling, skip the upload")

	cmd.AddCommand(newToolsCmd())
	cmd.AddCommand(newPortsCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newMonitorCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}
