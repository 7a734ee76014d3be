package bootstrap

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Command describes one external process invocation.
type Command struct {
	Path  string   // executable path, or bare name resolved via Env's PATH
	Args  []string
	Dir   string
	Env   *Environ // nil means inherit the real process environment
	Stdin string   // piped to the process if non-empty
}

// Output holds the captured streams of a completed process.
type Output struct {
	Stdout string
	Stderr string
}

// Combined returns stdout followed by stderr.
func (o Output) Combined() string {
	if o.Stderr == "" {
		return o.Stdout
	}
	return o.Stdout + o.Stderr
}

// Runner executes external commands, blocking until they exit. It exists as
// an interface so the provisioning steps can be tested without spawning
// real package managers.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Output, error)
}

type execRunner struct{}

// NewExecRunner returns a Runner backed by os/exec.
func NewExecRunner() Runner {
	return execRunner{}
}

// Run executes the command and waits for it to exit. A non-zero exit status
// is returned as an error; captured output is returned in both cases.
func (execRunner) Run(ctx context.Context, cmd Command) (Output, error) {
	path := cmd.Path
	if cmd.Env != nil && !strings.ContainsAny(path, `/\`) {
		resolved, err := cmd.Env.LookPath(path)
		if err != nil {
			return Output{}, err
		}
		path = resolved
	}

	proc := exec.CommandContext(ctx, path, cmd.Args...)
	proc.Dir = cmd.Dir
	if cmd.Env != nil {
		proc.Env = cmd.Env.List()
	}
	if cmd.Stdin != "" {
		proc.Stdin = strings.NewReader(cmd.Stdin)
	}

	var stdout, stderr bytes.Buffer
	proc.Stdout = &stdout
	proc.Stderr = &stderr

	err := proc.Run()
	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		return out, fmt.Errorf("run %s: %w", cmd.Path, err)
	}
	return out, nil
}
