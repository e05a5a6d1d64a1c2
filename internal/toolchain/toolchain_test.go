package toolchain

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"inoflash/internal/execx"
)

type recordedCall struct {
	command string
	args    []string
	env     []string
}

type fakeRunner struct {
	calls   []recordedCall
	respond func(command string, args []string) (execx.RunResult, error)
}

func (f *fakeRunner) Run(_ context.Context, command string, args []string, opts execx.RunOptions) (execx.RunResult, error) {
	f.calls = append(f.calls, recordedCall{command: command, args: append([]string(nil), args...), env: opts.Env})
	if f.respond != nil {
		return f.respond(command, args)
	}
	return execx.RunResult{}, nil
}

func noLookPath(t *testing.T) {
	t.Helper()
	orig := lookPath
	lookPath = func(string) (string, error) { return "", errors.New("not found") }
	t.Cleanup(func() { lookPath = orig })
}

// isolateHome points HOME at a fresh temp dir so a real ~/.inoflash/bin
// install on the host cannot leak into locate results.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestLocatePrefersLocalBinDir(t *testing.T) {
	isolateHome(t)
	orig := lookPath
	lookPath = func(string) (string, error) { return "/usr/bin/arduino-cli", nil }
	t.Cleanup(func() { lookPath = orig })

	binDir := t.TempDir()
	local := filepath.Join(binDir, executableName())
	if err := os.WriteFile(local, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	handle, ok := locate(binDir)
	if !ok {
		t.Fatal("expected tool to be located")
	}
	if handle.Path != local {
		t.Errorf("Path = %q, want local %q", handle.Path, local)
	}
	if handle.Source != SourceLocal {
		t.Errorf("Source = %q, want %q", handle.Source, SourceLocal)
	}
}

func TestLocateFallsBackToPath(t *testing.T) {
	isolateHome(t)
	orig := lookPath
	lookPath = func(string) (string, error) { return "/usr/bin/arduino-cli", nil }
	t.Cleanup(func() { lookPath = orig })

	handle, ok := locate(t.TempDir())
	if !ok {
		t.Fatal("expected tool to be located via PATH")
	}
	if handle.Source != SourceSystem {
		t.Errorf("Source = %q, want %q", handle.Source, SourceSystem)
	}
}

func TestLocateFindsSharedInstallDir(t *testing.T) {
	home := isolateHome(t)
	noLookPath(t)

	sharedBin := filepath.Join(home, ".inoflash", "bin")
	if err := os.MkdirAll(sharedBin, 0o755); err != nil {
		t.Fatal(err)
	}
	shared := filepath.Join(sharedBin, executableName())
	if err := os.WriteFile(shared, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	// The sketch-local bin dir is empty; the shared install must still serve.
	handle, ok := locate(t.TempDir())
	if !ok {
		t.Fatal("expected shared install to be located")
	}
	if handle.Path != shared {
		t.Errorf("Path = %q, want shared %q", handle.Path, shared)
	}
	if handle.Source != SourceLocal {
		t.Errorf("Source = %q, want %q", handle.Source, SourceLocal)
	}
}

func TestResolveMissingWithoutAutoInstall(t *testing.T) {
	isolateHome(t)
	noLookPath(t)

	fake := &fakeRunner{}
	_, err := Resolve(context.Background(), fake, Options{BinDir: t.TempDir(), AutoInstall: false})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if len(fake.calls) != 0 {
		t.Fatalf("expected no subprocess calls, got %d", len(fake.calls))
	}
}

func TestResolveProbesVersion(t *testing.T) {
	isolateHome(t)
	noLookPath(t)

	binDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(binDir, executableName()), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	fake := &fakeRunner{respond: func(_ string, args []string) (execx.RunResult, error) {
		if len(args) == 1 && args[0] == "version" {
			return execx.RunResult{Stdout: []byte("arduino-cli  Version: 1.1.1 Commit: abcdef Date: 2024-01-01\n")}, nil
		}
		return execx.RunResult{}, nil
	}}

	handle, err := Resolve(context.Background(), fake, Options{BinDir: binDir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if handle.Version != "1.1.1" {
		t.Errorf("Version = %q, want 1.1.1", handle.Version)
	}
}

func TestParseVersionLine(t *testing.T) {
	cases := []struct {
		line string
		want string
	}{
		{"arduino-cli  Version: 1.1.1 Commit: deadbeef", "1.1.1"},
		{"arduino-cli version 0.35.3", "0.35.3"},
		{"arduino-cli 0.20.2", "0.20.2"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := parseVersionLine(tc.line); got != tc.want {
			t.Errorf("parseVersionLine(%q) = %q, want %q", tc.line, got, tc.want)
		}
	}
}
