package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DefaultNodeVersion is the pinned Node.js version installed via fnm.
const DefaultNodeVersion = "23"

// InstallRuntime installs the given Node.js version through the manager,
// retrying on failure. Registry lookups and mirrors are flaky, so a bounded
// retry with a fixed delay trades latency for reliability without risking
// an infinite loop. The underlying install command is invoked at most
// maxAttempts times and the delay is never slept after the final attempt.
func (t *Toolchain) InstallRuntime(ctx context.Context, managerPath, version string, maxAttempts int, delay time.Duration) error {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		t.log.Info().
			Int("attempt", attempt).
			Str("version", version).
			Msg("installing Node.js via fnm")

		out, err := t.runner.Run(ctx, Command{
			Path: managerPath,
			Args: []string{"install", version},
			Env:  t.env,
		})
		if err == nil {
			t.log.Info().Str("version", version).Msg("Node.js installed via fnm")
			return nil
		}

		t.log.Error().
			Err(err).
			Str("stdout", strings.TrimSpace(out.Stdout)).
			Str("stderr", strings.TrimSpace(out.Stderr)).
			Msg("fnm install failed")

		if attempt < maxAttempts {
			t.log.Info().Dur("delay", delay).Msg("retrying fnm install")
			time.Sleep(delay)
		}
	}
	return fmt.Errorf("install Node.js %s: %d attempts exhausted", version, maxAttempts)
}

// VerifyRuntime checks that node and npm resolve and report versions
// through the merged environment. Called after ApplyManagerEnv; failure
// means the toolchain never became usable and is fatal to the caller.
func (t *Toolchain) VerifyRuntime(ctx context.Context) error {
	for _, tool := range []string{"node", "npm"} {
		out, err := t.runner.Run(ctx, Command{
			Path: tool,
			Args: []string{"--version"},
			Env:  t.env,
		})
		if err != nil {
			return fmt.Errorf("%s not usable after environment merge: %w", tool, err)
		}
		t.log.Info().Str("tool", tool).Str("version", strings.TrimSpace(out.Stdout)).Msg("toolchain version detected")
	}
	return nil
}
