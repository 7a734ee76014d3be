package bootstrap

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultSecondaryTimeout bounds how long the supervisor waits for the
// secondary npm process before detaching from it.
const DefaultSecondaryTimeout = 60 * time.Second

// JoinState is the tri-state outcome of a bounded join on a Task.
type JoinState int

const (
	// JoinCompleted means the task finished within the timeout.
	JoinCompleted JoinState = iota
	// JoinTimedOut means the task is still running; it is not cancelled.
	JoinTimedOut
	// JoinFailed means the task finished with an error.
	JoinFailed
)

// Task is a handle to a function running on its own goroutine. It supports
// a bounded TryJoin that leaves the work running on timeout; there is
// deliberately no cancellation.
type Task struct {
	done chan error
}

// Go starts fn on a new goroutine and returns its handle.
func Go(fn func() error) *Task {
	t := &Task{done: make(chan error, 1)}
	go func() {
		t.done <- fn()
	}()
	return t
}

// TryJoin waits up to timeout for the task. On JoinTimedOut the task keeps
// running and a later Join can still collect it.
func (t *Task) TryJoin(timeout time.Duration) (JoinState, error) {
	select {
	case err := <-t.done:
		if err != nil {
			return JoinFailed, err
		}
		return JoinCompleted, nil
	case <-time.After(timeout):
		return JoinTimedOut, nil
	}
}

// Join blocks until the task finishes.
func (t *Task) Join() error {
	return <-t.done
}

// ProcessSpec describes a child process the supervisor spawns.
type ProcessSpec struct {
	Path string
	Args []string
	Dir  string
}

// Supervisor launches the primary summarization service and the secondary
// add-in dev process, then blocks until the primary exits. The parent's
// exit is gated solely on the primary child; the secondary is fire-and-
// forget beyond its timeout window.
type Supervisor struct {
	env *Environ
	log zerolog.Logger

	// Primary is the long-lived service child. Its entry must exist.
	Primary ProcessSpec

	// AddinDir holds the secondary project's package.json; when the
	// manifest is absent the secondary step is a no-op.
	AddinDir string

	// SecondaryTimeout bounds the wait on the secondary process.
	SecondaryTimeout time.Duration
}

// NewSupervisor creates a supervisor bound to the given environment.
func NewSupervisor(env *Environ, logger zerolog.Logger) *Supervisor {
	return &Supervisor{
		env:              env,
		log:              logger,
		SecondaryTimeout: DefaultSecondaryTimeout,
	}
}

// Run spawns the primary service, runs the secondary process concurrently,
// waits for the primary to exit, then joins the secondary goroutine.
func (s *Supervisor) Run(ctx context.Context) error {
	if _, err := os.Stat(s.Primary.Path); err != nil {
		return fmt.Errorf("primary service entry %s missing: %w", s.Primary.Path, err)
	}

	s.log.Info().Str("path", s.Primary.Path).Msg("starting summarization service")
	primary := exec.Command(s.Primary.Path, s.Primary.Args...)
	primary.Dir = s.Primary.Dir
	primary.Env = s.env.List()
	primary.Stdout = os.Stdout
	primary.Stderr = os.Stderr
	if err := primary.Start(); err != nil {
		return fmt.Errorf("start summarization service: %w", err)
	}

	secondary := Go(s.runSecondary)

	waitErr := primary.Wait()

	if err := secondary.Join(); err != nil {
		// Never fatal: the parent's exit is gated on the primary alone.
		s.log.Error().Err(err).Msg("secondary npm process failed")
	}

	s.log.Info().Msg("summarization service and npm processes have finished")
	if waitErr != nil {
		return fmt.Errorf("summarization service exited: %w", waitErr)
	}
	return nil
}

// runSecondary starts `npm start` in the add-in project, feeds it the
// single "n" line its interactive prompt expects, and waits up to the
// timeout. The prompt's semantics are external and undocumented; exceeding
// the timeout is not an error and the process is simply left running.
func (s *Supervisor) runSecondary() error {
	if _, err := os.Stat(filepath.Join(s.AddinDir, "package.json")); err != nil {
		s.log.Info().Str("dir", s.AddinDir).Msg("no package.json found, skipping npm start")
		return nil
	}

	npmPath, err := s.env.LookPath("npm")
	if err != nil {
		return fmt.Errorf("locate npm: %w", err)
	}

	s.log.Info().Str("dir", s.AddinDir).Msg("starting 'npm start' in add-in project")
	cmd := exec.Command(npmPath, "start")
	cmd.Dir = s.AddinDir
	cmd.Env = s.env.List()
	cmd.Stdin = strings.NewReader("n\n")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start npm: %w", err)
	}

	wait := Go(cmd.Wait)
	state, err := wait.TryJoin(s.SecondaryTimeout)
	switch state {
	case JoinTimedOut:
		s.log.Info().Dur("timeout", s.SecondaryTimeout).Msg("npm process did not complete within the timeout; leaving it running")
	case JoinFailed:
		s.log.Error().Err(err).Str("stderr", strings.TrimSpace(stderr.String())).Msg("npm start exited with error")
	case JoinCompleted:
		if out := strings.TrimSpace(stdout.String()); out != "" {
			fmt.Println(out)
		}
		if errOut := strings.TrimSpace(stderr.String()); errOut != "" {
			fmt.Fprintln(os.Stderr, errOut)
		}
	}
	return nil
}
