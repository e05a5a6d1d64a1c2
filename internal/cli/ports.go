package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"inoflash/internal/ports"
)

func newPortsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ports",
		Short: "List candidate device nodes and enumerated USB serial ports",
		RunE:  runPorts,
	}
}

type portsReport struct {
	Candidates []candidateStatus `json:"candidates"`
	Enumerated []ports.Info      `json:"enumerated"`
}

type candidateStatus struct {
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
}

func runPorts(cmd *cobra.Command, _ []string) error {
	report := portsReport{}
	for _, c := range ports.Candidates {
		_, err := os.Stat(c)
		report.Candidates = append(report.Candidates, candidateStatus{Path: c, Exists: err == nil})
	}

	enumerated, err := ports.List()
	if err != nil {
		// Enumeration is best effort; candidates alone are still useful.
		cmd.PrintErrf("warning: %v\n", err)
	}
	report.Enumerated = enumerated

	if outputJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(boldStyle.Render("Candidate device nodes:"))
	for _, c := range report.Candidates {
		if c.Exists {
			cmd.Println("  " + okMark(c.Path))
		} else {
			cmd.Println("  " + failMark(c.Path+" (absent)"))
		}
	}

	cmd.Println(boldStyle.Render("Enumerated serial ports:"))
	if len(report.Enumerated) == 0 {
		cmd.Println("  (none)")
		return nil
	}
	for _, p := range report.Enumerated {
		line := p.Name
		if p.IsUSB {
			line += fmt.Sprintf("  VID:PID %s:%s", p.VID, p.PID)
		}
		if p.IsCH340 {
			line += "  " + yellowStyle.Render("CH340")
		}
		cmd.Println("  " + line)
	}
	return nil
}
