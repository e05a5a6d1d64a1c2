package avr

import (
	"strings"
	"testing"
)

func TestSyncHintsMatchesNotInSync(t *testing.T) {
	output := "avrdude: stk500_getsync() attempt 10 of 10: not in sync: resp=0x00\n"
	hints := SyncHints(output)
	if len(hints) == 0 {
		t.Fatal("expected remediation hints")
	}
	found := false
	for _, h := range hints {
		if strings.Contains(h, "reset button") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected reset-button hint, got %v", hints)
	}
}

func TestSyncHintsMatchesProgrammerNotResponding(t *testing.T) {
	output := "avrdude: stk500_recv(): Programmer is not responding\n"
	if hints := SyncHints(output); len(hints) == 0 {
		t.Fatal("expected hints for mixed-case signature")
	}
}

func TestSyncHintsNoMatch(t *testing.T) {
	output := "avrdude: ser_open(): can't open device: Permission denied\n"
	if hints := SyncHints(output); hints != nil {
		t.Fatalf("expected no hints, got %v", hints)
	}
}

func TestSyncHintsEmptyOutput(t *testing.T) {
	if hints := SyncHints(""); hints != nil {
		t.Fatalf("expected no hints for empty output, got %v", hints)
	}
}
