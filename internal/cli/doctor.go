package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"inoflash/internal/config"
	"inoflash/internal/paths"
	"inoflash/internal/ports"
	"inoflash/internal/toolchain"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check tool, core, port and config health",
		RunE:  runDoctor,
	}
}

type healthCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "warning", "error"
	Summary string `json:"summary"`
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	var checks []healthCheck

	status := resolveToolStatus(cmd.Context(), runner)
	checks = append(checks, checkTool(status))
	checks = append(checks, checkCore(status))
	checks = append(checks, checkPorts())
	checks = append(checks, checkConfig())

	return writeDoctorResult(cmd, checks)
}

func checkTool(status toolStatus) healthCheck {
	if !status.Available {
		return healthCheck{Name: "Tool", Status: "error", Summary: "arduino-cli not found"}
	}
	summary := "arduino-cli " + status.Version
	if status.Version == "" {
		summary = "arduino-cli (version unknown)"
	}
	return healthCheck{Name: "Tool", Status: "ok", Summary: summary + " (" + status.Source + ")"}
}

func checkCore(status toolStatus) healthCheck {
	if !status.Available {
		return healthCheck{Name: "Core", Status: "error", Summary: "cannot check without arduino-cli"}
	}
	if !status.CoreInstalled {
		return healthCheck{Name: "Core", Status: "error", Summary: toolchain.CoreID + " missing"}
	}
	return healthCheck{Name: "Core", Status: "ok", Summary: toolchain.CoreID}
}

func checkPorts() healthCheck {
	var present []string
	for _, c := range ports.Candidates {
		if _, err := os.Stat(c); err == nil {
			present = append(present, c)
		}
	}
	if len(present) > 0 {
		return healthCheck{Name: "Ports", Status: "ok", Summary: strings.Join(present, ", ")}
	}

	infos, err := ports.List()
	if err == nil {
		for _, p := range infos {
			if p.IsCH340 {
				return healthCheck{
					Name:    "Ports",
					Status:  "warning",
					Summary: "CH340 enumerated but no candidate device node; check driver/permissions",
				}
			}
		}
	}
	return healthCheck{Name: "Ports", Status: "warning", Summary: "no candidate device node present"}
}

func checkConfig() healthCheck {
	global, err := paths.GlobalConfigFile()
	if err != nil {
		return healthCheck{Name: "Config", Status: "warning", Summary: err.Error()}
	}
	if _, err := os.Stat(global); err != nil {
		return healthCheck{Name: "Config", Status: "ok", Summary: "defaults (no global config)"}
	}
	cfg, err := config.LoadFile(global)
	if err != nil {
		return healthCheck{Name: "Config", Status: "error", Summary: err.Error()}
	}
	if cfg.Baud <= 0 {
		return healthCheck{Name: "Config", Status: "error", Summary: fmt.Sprintf("invalid baud %d", cfg.Baud)}
	}
	return healthCheck{Name: "Config", Status: "ok", Summary: global}
}

func writeDoctorResult(cmd *cobra.Command, checks []healthCheck) error {
	if outputJSON {
		data, err := json.MarshalIndent(checks, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, boldStyle.Render("INOFLASH HEALTH"))

	for _, c := range checks {
		var statusStr string
		switch c.Status {
		case "ok":
			statusStr = greenStyle.Render("OK")
		case "warning":
			statusStr = yellowStyle.Render("WARN")
		case "error":
			statusStr = redStyle.Render("ERROR")
		}
		fmt.Fprintf(out, "  %-8s %s    %s\n", c.Name+":", statusStr, c.Summary)
	}

	return nil
}
