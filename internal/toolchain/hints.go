package toolchain

import "runtime"

// InstallHints returns manual installation suggestions for the current OS,
// printed when automatic installation is disabled or fails.
func InstallHints() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{
			"Install arduino-cli via Homebrew: brew install arduino-cli",
			"or run the official installer: curl -fsSL " + DefaultInstallerURL + " | sh",
		}
	case "linux":
		return []string{
			"Install arduino-cli with: curl -fsSL " + DefaultInstallerURL + " | sh",
			"or into the project: curl -fsSL " + DefaultInstallerURL + " | BINDIR=./bin sh",
		}
	case "windows":
		return []string{
			"Install arduino-cli via winget: winget install ArduinoSA.CLI",
			"or via Chocolatey: choco install arduino-cli",
		}
	default:
		return []string{"Install arduino-cli using your platform's package manager"}
	}
}
