package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options configures one end-to-end bootstrap run.
type Options struct {
	InstallRoot      string        // private fnm install root
	ProjectRoot      string        // searched for requirements.txt
	AddinDir         string        // fixed location of the add-in package.json
	NodeVersion      string        // pinned Node.js version
	InstallAttempts  int           // total fnm install invocations
	InstallDelay     time.Duration // fixed delay between install attempts
	SecondaryTimeout time.Duration // bounded wait on the secondary process
	Primary          ProcessSpec   // primary service child
}

// Run executes the fixed startup sequence: provision the runtime manager,
// install the pinned Node version, merge the manager's environment, install
// both dependency ecosystems, then launch and supervise the two service
// processes. Every step assumes the previous one succeeded; the first
// failure aborts the run and the caller exits non-zero.
func Run(ctx context.Context, opts Options, logger zerolog.Logger) error {
	env := SystemEnviron()
	toolchain := NewToolchain(env, NewExecRunner(), logger)

	preflight(opts, logger)

	managerPath, err := toolchain.EnsureManager(ctx, opts.InstallRoot)
	if err != nil {
		return err
	}

	if err := toolchain.InstallRuntime(ctx, managerPath, opts.NodeVersion, opts.InstallAttempts, opts.InstallDelay); err != nil {
		return err
	}

	if err := toolchain.ApplyManagerEnv(ctx, managerPath); err != nil {
		return err
	}

	if err := toolchain.VerifyRuntime(ctx); err != nil {
		return err
	}

	if err := toolchain.InstallManifestDeps(ctx, opts.ProjectRoot); err != nil {
		return err
	}

	if err := toolchain.InstallAddinDeps(ctx, opts.AddinDir); err != nil {
		return err
	}

	supervisor := NewSupervisor(env, logger)
	supervisor.Primary = opts.Primary
	supervisor.AddinDir = opts.AddinDir
	if opts.SecondaryTimeout > 0 {
		supervisor.SecondaryTimeout = opts.SecondaryTimeout
	}
	return supervisor.Run(ctx)
}

// preflight warns about host configurations known to cause grief before any
// provisioning work starts.
func preflight(opts Options, logger zerolog.Logger) {
	tmp := os.TempDir()
	if rel, err := filepath.Rel(tmp, opts.InstallRoot); err == nil && !strings.HasPrefix(rel, "..") {
		logger.Warn().
			Str("install_root", opts.InstallRoot).
			Msg("install root lives inside the temp directory; the toolchain may vanish between runs")
	}
}
