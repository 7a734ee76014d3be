package bootstrap

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

// zipWith builds an in-memory archive containing the given file paths.
func zipWith(t *testing.T, paths ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, path := range paths {
		header := &zip.FileHeader{Name: path, Method: zip.Deflate}
		header.SetMode(0o755)
		f, err := w.CreateHeader(header)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.Write([]byte("binary")); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func countingFetcher(data []byte, calls *int) Fetcher {
	return func(ctx context.Context, url string) ([]byte, error) {
		*calls++
		if data == nil {
			return nil, errors.New("no archive")
		}
		return data, nil
	}
}

func TestEnsureManagerIdempotent(t *testing.T) {
	root := t.TempDir()
	existing := filepath.Join(root, managerExecName())
	if err := os.WriteFile(existing, []byte("binary"), 0o755); err != nil {
		t.Fatal(err)
	}

	env := NewEnviron()
	calls := 0
	toolchain := NewToolchain(env, failingRunner{}, zerolog.Nop()).
		WithFetcher(countingFetcher(nil, &calls))

	path, err := toolchain.EnsureManager(context.Background(), root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != existing {
		t.Errorf("expected %q, got %q", existing, path)
	}
	if calls != 0 {
		t.Errorf("expected zero network calls when manager exists, got %d", calls)
	}
	if got := env.Get(InstallRootVar); got != root {
		t.Errorf("expected %s=%q, got %q", InstallRootVar, root, got)
	}
}

func TestEnsureManagerDownloadsAndExtracts(t *testing.T) {
	root := t.TempDir()
	archive := zipWith(t, managerExecName())

	calls := 0
	toolchain := NewToolchain(NewEnviron(), failingRunner{}, zerolog.Nop()).
		WithFetcher(countingFetcher(archive, &calls))

	path, err := toolchain.EnsureManager(context.Background(), root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected one download, got %d", calls)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("manager executable missing after extraction: %v", err)
	}
}

func TestEnsureManagerRelocatesNestedExecutable(t *testing.T) {
	root := t.TempDir()
	archive := zipWith(t, "fnm-release/"+managerExecName())

	calls := 0
	toolchain := NewToolchain(NewEnviron(), failingRunner{}, zerolog.Nop()).
		WithFetcher(countingFetcher(archive, &calls))

	path, err := toolchain.EnsureManager(context.Background(), root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := filepath.Join(root, managerExecName())
	if path != want {
		t.Errorf("expected relocation to %q, got %q", want, path)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("relocated executable missing: %v", err)
	}
}

func TestEnsureManagerMissingAfterExtraction(t *testing.T) {
	root := t.TempDir()
	archive := zipWith(t, "README.md")

	calls := 0
	toolchain := NewToolchain(NewEnviron(), failingRunner{}, zerolog.Nop()).
		WithFetcher(countingFetcher(archive, &calls))

	_, err := toolchain.EnsureManager(context.Background(), root)
	if !errors.Is(err, ErrManagerNotFound) {
		t.Errorf("expected ErrManagerNotFound, got %v", err)
	}
}

func TestEnsureManagerDownloadError(t *testing.T) {
	root := t.TempDir()

	calls := 0
	toolchain := NewToolchain(NewEnviron(), failingRunner{}, zerolog.Nop()).
		WithFetcher(countingFetcher(nil, &calls))

	if _, err := toolchain.EnsureManager(context.Background(), root); err == nil {
		t.Error("expected error when download fails")
	}
}
