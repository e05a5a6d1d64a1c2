package avr

import (
	"context"
	"errors"
	"testing"

	"inoflash/internal/execx"
	"inoflash/internal/sketch"
	"inoflash/internal/toolchain"
)

type recordedCall struct {
	command string
	args    []string
}

type fakeRunner struct {
	calls  []recordedCall
	result execx.RunResult
	err    error
}

func (f *fakeRunner) Run(_ context.Context, command string, args []string, _ execx.RunOptions) (execx.RunResult, error) {
	f.calls = append(f.calls, recordedCall{command: command, args: append([]string(nil), args...)})
	return f.result, f.err
}

var (
	testCLI    = toolchain.Handle{Path: "/opt/bin/arduino-cli"}
	testTarget = sketch.Target{Dir: "/home/dev/blink", Ino: "/home/dev/blink/blink.ino"}
)

func assertArgs(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("args = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("args = %v, want %v", got, want)
		}
	}
}

func TestCompileUsesOldBootloaderProfile(t *testing.T) {
	fake := &fakeRunner{}

	_, err := Compile(context.Background(), fake, testCLI, testTarget, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.calls) != 1 {
		t.Fatalf("expected one invocation, got %d", len(fake.calls))
	}
	if fake.calls[0].command != testCLI.Path {
		t.Errorf("command = %q, want %q", fake.calls[0].command, testCLI.Path)
	}
	assertArgs(t, fake.calls[0].args, []string{"compile", "--fqbn", DefaultFQBN, testTarget.Dir})
}

func TestCompileFailureWrapsSentinel(t *testing.T) {
	fake := &fakeRunner{
		result: execx.RunResult{Stderr: []byte("error: expected ';'\n"), ExitCode: 1},
		err:    errors.New("exit status 1"),
	}

	build, err := Compile(context.Background(), fake, testCLI, testTarget, Options{})
	if !errors.Is(err, ErrCompile) {
		t.Fatalf("expected ErrCompile, got %v", err)
	}
	if build.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", build.ExitCode)
	}
	if build.Output != "error: expected ';'\n" {
		t.Errorf("Output = %q, want raw tool output", build.Output)
	}
}

func TestUploadSharesBoardProfileWithCompile(t *testing.T) {
	fake := &fakeRunner{}

	_, err := Upload(context.Background(), fake, testCLI, testTarget, "/dev/ttyUSB0", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertArgs(t, fake.calls[0].args, []string{"upload", "-p", "/dev/ttyUSB0", "--fqbn", DefaultFQBN, testTarget.Dir})
}

func TestFQBNOverride(t *testing.T) {
	fake := &fakeRunner{}
	opts := Options{FQBN: "arduino:avr:uno"}

	if _, err := Compile(context.Background(), fake, testCLI, testTarget, opts); err != nil {
		t.Fatal(err)
	}
	if _, err := Upload(context.Background(), fake, testCLI, testTarget, "/dev/ttyACM0", opts); err != nil {
		t.Fatal(err)
	}

	for _, call := range fake.calls {
		found := false
		for i, a := range call.args {
			if a == "--fqbn" && call.args[i+1] == "arduino:avr:uno" {
				found = true
			}
		}
		if !found {
			t.Fatalf("override missing from %v", call.args)
		}
	}
}

func TestUploadFailureWrapsSentinel(t *testing.T) {
	fake := &fakeRunner{
		result: execx.RunResult{Stderr: []byte("avrdude done\n"), ExitCode: 1},
		err:    errors.New("exit status 1"),
	}

	_, err := Upload(context.Background(), fake, testCLI, testTarget, "/dev/ttyUSB0", Options{})
	if !errors.Is(err, ErrUpload) {
		t.Fatalf("expected ErrUpload, got %v", err)
	}
}
