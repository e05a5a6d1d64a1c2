package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"inoflash/internal/execx"
	"inoflash/internal/paths"
	"inoflash/internal/toolchain"
)

var installForce bool

func newToolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Manage arduino-cli and the AVR core",
	}

	cmd.AddCommand(newToolsListCmd())
	cmd.AddCommand(newToolsInstallCmd())

	return cmd
}

func newToolsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show resolved arduino-cli and core status",
		RunE:  runToolsList,
	}
}

type toolStatus struct {
	Tool          string `json:"tool"`
	Path          string `json:"path,omitempty"`
	Version       string `json:"version,omitempty"`
	Source        string `json:"source,omitempty"`
	Available     bool   `json:"available"`
	CoreInstalled bool   `json:"core_installed"`
}

func runToolsList(cmd *cobra.Command, _ []string) error {
	status := resolveToolStatus(cmd.Context(), runner)

	if outputJSON {
		data, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if !status.Available {
		cmd.Println(failMark("arduino-cli not found (~/.inoflash/bin or PATH)"))
		for _, hint := range toolchain.InstallHints() {
			cmd.Printf("  %s\n", hint)
		}
		return nil
	}

	cmd.Println(okMark(fmt.Sprintf("arduino-cli %s (%s, %s)", status.Version, status.Path, status.Source)))
	if status.CoreInstalled {
		cmd.Println(okMark(toolchain.CoreID + " core installed"))
	} else {
		cmd.Println(failMark(toolchain.CoreID + " core missing (run: inoflash tools install)"))
	}
	return nil
}

func resolveToolStatus(ctx context.Context, r execx.Runner) toolStatus {
	binDir, _ := paths.GlobalBinDir()
	handle, ok := toolchain.Status(ctx, r, binDir)
	if !ok {
		return toolStatus{Tool: "arduino-cli"}
	}

	status := toolStatus{
		Tool:      "arduino-cli",
		Path:      handle.Path,
		Version:   handle.Version,
		Source:    string(handle.Source),
		Available: true,
	}
	if installed, err := toolchain.CoreInstalled(ctx, r, handle); err == nil {
		status.CoreInstalled = installed
	}
	return status
}

func newToolsInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install arduino-cli and the arduino:avr core",
		RunE:  runToolsInstall,
	}

	cmd.Flags().BoolVar(&installForce, "force", false, "Reinstall arduino-cli even if already present")

	return cmd
}

func runToolsInstall(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	binDir, err := paths.GlobalBinDir()
	if err != nil {
		return err
	}

	opts := toolchain.Options{
		BinDir:      binDir,
		AutoInstall: true,
		Logf: func(format string, args ...any) {
			cmd.Printf(format+"\n", args...)
		},
	}

	if installForce {
		if err := toolchain.Install(ctx, runner, opts); err != nil {
			return err
		}
	}

	cli, err := toolchain.Resolve(ctx, runner, opts)
	if err != nil {
		return err
	}
	cmd.Println(okMark(fmt.Sprintf("arduino-cli %s at %s", cli.Version, cli.Path)))

	if err := toolchain.EnsureCore(ctx, runner, cli, opts); err != nil {
		return err
	}
	cmd.Println(okMark(toolchain.CoreID + " core installed"))
	return nil
}
