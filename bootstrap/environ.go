// Package bootstrap provisions the local Node.js toolchain and supervises
// the summarization service processes.
//
// Information Hiding:
// - Archive download and extraction for the portable runtime manager
// - Runtime manager invocation and retry policy
// - Shell-export parsing from the manager's env introspection
// - Child process lifecycles (awaited primary, detachable secondary)
package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Environ is a mutable snapshot of a process environment. It is built once
// during setup, mutated by the environment adapter, and handed to every
// subprocess spawn. Keeping it as an explicit value (rather than mutating
// the real process environment) lets tests supply a fabricated context.
//
// Not safe for concurrent mutation; setup is strictly sequential and the
// environment is fully established before any goroutine starts.
type Environ struct {
	vars map[string]string
	keys []string // insertion order, for stable List output
}

// NewEnviron creates an empty environment.
func NewEnviron() *Environ {
	return &Environ{vars: make(map[string]string)}
}

// SystemEnviron creates an environment seeded from the current process.
func SystemEnviron() *Environ {
	env := NewEnviron()
	for _, kv := range os.Environ() {
		if key, value, ok := strings.Cut(kv, "="); ok {
			env.Set(key, value)
		}
	}
	return env
}

// Get returns the value for key, or "" if unset.
func (e *Environ) Get(key string) string {
	return e.vars[key]
}

// Set assigns key to value, overwriting any existing value.
func (e *Environ) Set(key, value string) {
	if _, exists := e.vars[key]; !exists {
		e.keys = append(e.keys, key)
	}
	e.vars[key] = value
}

// PrependPath prepends value to the PATH variable using the OS path-list
// separator. An empty existing PATH becomes just value.
func (e *Environ) PrependPath(value string) {
	existing := e.Get("PATH")
	if existing == "" {
		e.Set("PATH", value)
		return
	}
	e.Set("PATH", value+string(os.PathListSeparator)+existing)
}

// List returns the environment as KEY=VALUE pairs suitable for exec.Cmd.Env.
func (e *Environ) List() []string {
	out := make([]string, 0, len(e.keys))
	for _, key := range e.keys {
		out = append(out, key+"="+e.vars[key])
	}
	return out
}

// LookPath searches the directories of this environment's PATH for an
// executable named name. Unlike exec.LookPath it consults this Environ,
// not the real process environment, so binaries made visible by the
// environment adapter resolve correctly.
func (e *Environ) LookPath(name string) (string, error) {
	if strings.ContainsRune(name, os.PathSeparator) {
		return name, nil
	}
	for _, dir := range filepath.SplitList(e.Get("PATH")) {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("executable %q not found in PATH", name)
}
