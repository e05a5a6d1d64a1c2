package cli

import "github.com/spf13/cobra"

// Version is set at build time with -ldflags "-X inoflash/internal/cli.Version=...".
var Version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the inoflash version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println("inoflash " + Version)
		},
	}
}
