package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"inoflash/internal/config"
	"inoflash/internal/monitor"
	"inoflash/internal/ports"
)

var monitorBaud int

func newMonitorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitor [port]",
		Short: "Open a serial console on the board",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonitor,
	}

	cmd.Flags().IntVar(&monitorBaud, "baud", 0, "Baud rate (default from config, else 9600)")

	return cmd
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, cfgErr := config.Load("")
	if cfgErr != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), yellowStyle.Render("warning:")+" "+cfgErr.Error())
	}

	port := cfg.Port
	if len(args) == 1 {
		port = args[0]
	}

	var err error
	if port != "" {
		err = ports.Validate(port)
	} else {
		port, err = ports.Detect(cfg.CandidatePorts)
	}
	if err != nil {
		return err
	}

	baud := monitorBaud
	if baud == 0 {
		baud = cfg.Baud
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Monitoring %s at %d baud (ctrl-c to exit)\n", port, baud)
	return monitor.Run(cmd.Context(), port, baud, cmd.InOrStdin(), cmd.OutOrStdout())
}
