package cli

import (
	"context"

	"inoflash/internal/execx"
)

type runCall struct {
	command string
	args    []string
	env     []string
}

// fakeRunner records every subprocess invocation and answers via respond.
// When respond is nil every call succeeds with empty output.
type fakeRunner struct {
	calls   []runCall
	respond func(command string, args []string) (execx.RunResult, error)
}

func (f *fakeRunner) Run(_ context.Context, command string, args []string, opts execx.RunOptions) (execx.RunResult, error) {
	copied := append([]string(nil), args...)
	f.calls = append(f.calls, runCall{command: command, args: copied, env: opts.Env})
	if f.respond != nil {
		return f.respond(command, args)
	}
	return execx.RunResult{}, nil
}

// count returns how many recorded calls had sub as their first argument.
func (f *fakeRunner) count(sub string) int {
	n := 0
	for _, c := range f.calls {
		if len(c.args) > 0 && c.args[0] == sub {
			n++
		}
	}
	return n
}

func (f *fakeRunner) lastCall(sub string) (runCall, bool) {
	for i := len(f.calls) - 1; i >= 0; i-- {
		if len(f.calls[i].args) > 0 && f.calls[i].args[0] == sub {
			return f.calls[i], true
		}
	}
	return runCall{}, false
}
