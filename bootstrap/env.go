package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

const exportPrefix = "export "

// ApplyManagerEnv runs the manager's env introspection subcommand and
// merges its shell-export output into the environment context. A failing
// subcommand is an error (fatal to the caller); individual lines that do
// not parse are logged and skipped.
func (t *Toolchain) ApplyManagerEnv(ctx context.Context, managerPath string) error {
	t.log.Info().Msg("evaluating 'fnm env' to update environment variables")

	out, err := t.runner.Run(ctx, Command{
		Path: managerPath,
		Args: []string{"env"},
		Env:  t.env,
	})
	if err != nil {
		return fmt.Errorf("run 'fnm env': %w", err)
	}

	applied := ApplyExports(t.env, out.Combined(), t.log)
	t.log.Info().Int("applied", applied).Msg("environment variables updated from fnm env")
	return nil
}

// ApplyExports parses shell-export lines and applies each well-formed pair
// to env, returning the number applied. PATH values are prepended rather
// than overwritten. A malformed line never aborts the whole patch; the
// entry is logged and the remaining lines still apply.
func ApplyExports(env *Environ, output string, logger zerolog.Logger) int {
	applied := 0
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, exportPrefix) {
			continue
		}

		key, value, ok := parseExport(line)
		if !ok {
			logger.Warn().Str("line", line).Msg("skipping unparseable export line")
			continue
		}

		if key == "PATH" {
			env.PrependPath(value)
		} else {
			env.Set(key, value)
		}
		logger.Debug().Str("key", key).Msg("updated environment variable")
		applied++
	}
	return applied
}

// parseExport splits an "export KEY=VALUE" line into its pair, stripping
// surrounding quotes from the value.
func parseExport(line string) (key, value string, ok bool) {
	rest := strings.TrimPrefix(line, exportPrefix)
	key, value, found := strings.Cut(rest, "=")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return "", "", false
	}
	value = strings.TrimSpace(value)
	value = strings.Trim(value, `"'`)
	return key, value, true
}
