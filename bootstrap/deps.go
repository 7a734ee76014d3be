package bootstrap

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// InstallManifestDeps searches root for a requirements.txt manifest and
// installs its entries with pip. A missing manifest is not an error: some
// deployments carry no Python tooling, so the step logs a warning and
// no-ops. An installer failure, however, is fatal to the caller.
func (t *Toolchain) InstallManifestDeps(ctx context.Context, root string) error {
	manifest := findManifest(root, "requirements.txt")
	if manifest == "" {
		t.log.Warn().Str("root", root).Msg("no requirements.txt found, skipping Python dependency installation")
		return nil
	}

	t.log.Info().Str("manifest", manifest).Msg("installing Python dependencies")
	out, err := t.runner.Run(ctx, Command{
		Path: "python3",
		Args: []string{"-m", "pip", "install", "-r", manifest},
		Env:  t.env,
	})
	if err != nil {
		t.log.Error().Str("output", out.Combined()).Msg("pip install failed")
		return fmt.Errorf("install Python dependencies: %w", err)
	}

	t.log.Info().Msg("Python dependencies installed")
	return nil
}

// InstallAddinDeps installs the add-in project's npm dependencies. Only
// runs when package.json exists at the fixed location. Wipes the stale
// node_modules cache first (best-effort) and clears npm's global cache, so
// a previous partial install can never poison this one. Any command
// failure here is fatal to the caller.
func (t *Toolchain) InstallAddinDeps(ctx context.Context, addinDir string) error {
	if _, err := os.Stat(filepath.Join(addinDir, "package.json")); err != nil {
		t.log.Info().Str("dir", addinDir).Msg("no package.json found, skipping npm install")
		return nil
	}

	t.log.Info().Msg("removing existing node_modules")
	// Deletion failures are ignored; npm recreates the tree anyway.
	_ = os.RemoveAll(filepath.Join(addinDir, "node_modules"))

	t.log.Info().Msg("clearing npm cache")
	if out, err := t.runner.Run(ctx, Command{
		Path: "npm",
		Args: []string{"cache", "clean", "--force"},
		Dir:  addinDir,
		Env:  t.env,
	}); err != nil {
		t.log.Error().Str("output", out.Combined()).Msg("npm cache clean failed")
		return fmt.Errorf("clear npm cache: %w", err)
	}

	t.log.Info().Msg("installing npm dependencies with verbose output")
	out, err := t.runner.Run(ctx, Command{
		Path: "npm",
		Args: []string{"install", "--verbose"},
		Dir:  addinDir,
		Env:  t.env,
	})
	if err != nil {
		t.log.Error().Str("output", out.Combined()).Msg("npm install failed")
		return fmt.Errorf("install npm dependencies: %w", err)
	}

	t.log.Info().Msg("npm dependencies installed")
	return nil
}

// findManifest walks the tree under root and returns the first file with
// the given name, or "" when absent.
func findManifest(root, name string) string {
	var found string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable subtree, keep walking
		}
		if d.IsDir() {
			// Dependency trees are large and never carry manifests we own.
			if base := d.Name(); base == "node_modules" || strings.HasPrefix(base, ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() == name {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	return found
}
