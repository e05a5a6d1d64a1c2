package avr

import "strings"

// avrdude emits these when the host and the bootloader lose sync, the classic
// CH340 failure mode.
var syncSignatures = []string{
	"not in sync",
	"programmer is not responding",
}

// SyncHints returns remediation suggestions when the upload output matches a
// known bootloader sync failure, and nil otherwise. Hints are only ever added
// on a genuine match; unrelated failures keep the raw output alone.
func SyncHints(output string) []string {
	lower := strings.ToLower(output)
	matched := false
	for _, sig := range syncSignatures {
		if strings.Contains(lower, sig) {
			matched = true
			break
		}
	}
	if !matched {
		return nil
	}

	return []string{
		"Press the reset button on the board right before the upload starts, then retry",
		"Check the board is connected: ls -la /dev/ttyUSB* /dev/ttyACM*",
		"Check your user is in the dialout group: groups | grep dialout",
		"Verify the port with: inoflash ports",
	}
}
