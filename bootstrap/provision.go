package bootstrap

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"
)

const (
	// ManagerVersion pins the fnm release the provisioner downloads.
	ManagerVersion = "v1.38.1"

	// InstallRootVar confines all fnm-managed installs to the private
	// install root. Set once by EnsureManager; every later step reads it.
	InstallRootVar = "FNM_DIR"
)

// ErrManagerNotFound is returned when the fnm executable cannot be located
// after extracting the release archive. There is no recovery path without
// operator intervention.
var ErrManagerNotFound = errors.New("fnm executable not found after extraction")

// Fetcher downloads the contents of a URL. Injectable so tests can prove
// the provisioner performs zero network calls on the idempotent path.
type Fetcher func(ctx context.Context, url string) ([]byte, error)

// Toolchain drives provisioning of the portable Node.js toolchain.
type Toolchain struct {
	env    *Environ
	runner Runner
	fetch  Fetcher
	log    zerolog.Logger
}

// NewToolchain creates a toolchain bound to the given environment context.
func NewToolchain(env *Environ, runner Runner, logger zerolog.Logger) *Toolchain {
	return &Toolchain{
		env:    env,
		runner: runner,
		fetch:  fetchURL,
		log:    logger,
	}
}

// WithFetcher overrides the archive downloader.
func (t *Toolchain) WithFetcher(fetch Fetcher) *Toolchain {
	t.fetch = fetch
	return t
}

// EnsureManager makes sure the fnm executable is present under installRoot
// and returns its path. Idempotent: if the executable already exists no
// network access happens. Either way InstallRootVar is pointed at
// installRoot in the environment context so fnm confines installs there.
func (t *Toolchain) EnsureManager(ctx context.Context, installRoot string) (string, error) {
	managerPath := filepath.Join(installRoot, managerExecName())

	if _, err := os.Stat(managerPath); err == nil {
		t.log.Info().Str("path", managerPath).Msg("fnm already installed, skipping download")
		t.env.Set(InstallRootVar, installRoot)
		return managerPath, nil
	}

	if err := os.MkdirAll(installRoot, 0o755); err != nil {
		return "", fmt.Errorf("create install root: %w", err)
	}

	url := managerArchiveURL()
	t.log.Info().Str("url", url).Msg("downloading portable fnm")
	data, err := t.fetch(ctx, url)
	if err != nil {
		return "", fmt.Errorf("download fnm archive: %w", err)
	}

	if err := extractZip(data, installRoot); err != nil {
		return "", fmt.Errorf("extract fnm archive: %w", err)
	}

	// Some release archives nest the executable in a subdirectory;
	// relocate it to the expected top-level path.
	if _, err := os.Stat(managerPath); err != nil {
		if err := relocateNested(installRoot, managerExecName(), managerPath); err != nil {
			return "", err
		}
	}

	if _, err := os.Stat(managerPath); err != nil {
		return "", ErrManagerNotFound
	}

	t.env.Set(InstallRootVar, installRoot)
	t.log.Info().Str("path", managerPath).Msg("fnm downloaded and extracted")
	return managerPath, nil
}

// managerExecName returns the platform-specific executable file name.
func managerExecName() string {
	if runtime.GOOS == "windows" {
		return "fnm.exe"
	}
	return "fnm"
}

// managerArchiveURL returns the fixed versioned release archive URL.
func managerArchiveURL() string {
	var platform string
	switch runtime.GOOS {
	case "windows":
		platform = "fnm-windows"
	case "darwin":
		platform = "fnm-macos"
	default:
		platform = "fnm-linux"
	}
	return fmt.Sprintf("https://github.com/Schniz/fnm/releases/download/%s/%s.zip", ManagerVersion, platform)
}

// relocateNested searches one level of subdirectories under root for name
// and moves the first match to dest.
func relocateNested(root, name, dest string) error {
	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("scan install root: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		candidate := filepath.Join(root, entry.Name(), name)
		if _, err := os.Stat(candidate); err == nil {
			if err := os.Rename(candidate, dest); err != nil {
				return fmt.Errorf("relocate %s: %w", name, err)
			}
			return nil
		}
	}
	return nil
}

// extractZip writes the archive contents under dest, preserving file modes.
func extractZip(data []byte, dest string) error {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}

	for _, file := range reader.File {
		target := filepath.Join(dest, filepath.Clean(file.Name))
		if !filepath.IsLocal(file.Name) {
			return fmt.Errorf("archive entry escapes destination: %s", file.Name)
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}

		src, err := file.Open()
		if err != nil {
			return fmt.Errorf("open archive entry %s: %w", file.Name, err)
		}

		dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, file.Mode())
		if err != nil {
			src.Close()
			return err
		}

		_, err = io.Copy(dst, src)
		src.Close()
		if cerr := dst.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("write %s: %w", target, err)
		}
	}
	return nil
}

// fetchURL is the default Fetcher, downloading via net/http.
func fetchURL(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s fetching %s", resp.Status, url)
	}
	return io.ReadAll(resp.Body)
}
