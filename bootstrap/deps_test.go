package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// recordingRunner captures every invocation and always succeeds.
type recordingRunner struct {
	commands []Command
}

func (r *recordingRunner) Run(ctx context.Context, cmd Command) (Output, error) {
	r.commands = append(r.commands, cmd)
	return Output{Stdout: "ok"}, nil
}

func TestFindManifest(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "service", "module")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	manifest := filepath.Join(nested, "requirements.txt")
	if err := os.WriteFile(manifest, []byte("flask\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := findManifest(root, "requirements.txt"); got != manifest {
		t.Errorf("expected %q, got %q", manifest, got)
	}
	if got := findManifest(root, "missing.txt"); got != "" {
		t.Errorf("expected empty result, got %q", got)
	}
}

func TestFindManifestSkipsNodeModules(t *testing.T) {
	root := t.TempDir()
	buried := filepath.Join(root, "node_modules", "pkg")
	if err := os.MkdirAll(buried, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(buried, "requirements.txt"), []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := findManifest(root, "requirements.txt"); got != "" {
		t.Errorf("expected manifests under node_modules to be ignored, got %q", got)
	}
}

func TestInstallManifestDepsNoManifestIsNoop(t *testing.T) {
	runner := &recordingRunner{}
	toolchain := NewToolchain(NewEnviron(), runner, zerolog.Nop())

	if err := toolchain.InstallManifestDeps(context.Background(), t.TempDir()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runner.commands) != 0 {
		t.Errorf("expected no installer invocation, got %d", len(runner.commands))
	}
}

func TestInstallManifestDepsRunsPip(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "requirements.txt"), []byte("flask\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	runner := &recordingRunner{}
	toolchain := NewToolchain(NewEnviron(), runner, zerolog.Nop())

	if err := toolchain.InstallManifestDeps(context.Background(), root); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runner.commands) != 1 {
		t.Fatalf("expected one installer invocation, got %d", len(runner.commands))
	}
	if got := strings.Join(runner.commands[0].Args, " "); !strings.Contains(got, "pip install -r") {
		t.Errorf("unexpected installer args: %q", got)
	}
}

func TestInstallManifestDepsFailureIsFatal(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "requirements.txt"), []byte("flask\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	toolchain := NewToolchain(NewEnviron(), failingRunner{}, zerolog.Nop())
	if err := toolchain.InstallManifestDeps(context.Background(), root); err == nil {
		t.Error("expected error when pip install fails")
	}
}

func TestInstallAddinDepsSkippedWithoutManifest(t *testing.T) {
	runner := &recordingRunner{}
	toolchain := NewToolchain(NewEnviron(), runner, zerolog.Nop())

	if err := toolchain.InstallAddinDeps(context.Background(), t.TempDir()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runner.commands) != 0 {
		t.Errorf("expected no npm invocation, got %d", len(runner.commands))
	}
}

func TestInstallAddinDepsWipesCacheThenInstalls(t *testing.T) {
	addin := t.TempDir()
	if err := os.WriteFile(filepath.Join(addin, "package.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(addin, "node_modules", "leftover")
	if err := os.MkdirAll(stale, 0o755); err != nil {
		t.Fatal(err)
	}

	runner := &recordingRunner{}
	toolchain := NewToolchain(NewEnviron(), runner, zerolog.Nop())

	if err := toolchain.InstallAddinDeps(context.Background(), addin); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("expected stale node_modules to be removed")
	}
	if len(runner.commands) != 2 {
		t.Fatalf("expected cache clean then install, got %d commands", len(runner.commands))
	}
	if got := strings.Join(runner.commands[0].Args, " "); got != "cache clean --force" {
		t.Errorf("unexpected first command args: %q", got)
	}
	if got := strings.Join(runner.commands[1].Args, " "); got != "install --verbose" {
		t.Errorf("unexpected second command args: %q", got)
	}
}

func TestInstallAddinDepsFailureIsFatal(t *testing.T) {
	addin := t.TempDir()
	if err := os.WriteFile(filepath.Join(addin, "package.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	toolchain := NewToolchain(NewEnviron(), failingRunner{}, zerolog.Nop())
	if err := toolchain.InstallAddinDeps(context.Background(), addin); err == nil {
		t.Error("expected error when npm fails")
	}
}
