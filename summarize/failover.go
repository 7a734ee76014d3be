package summarize

import (
	"context"
	"errors"
)

// ErrExhausted signals that every credential failed (or none existed).
// The individual provider errors are logged by the caller, never attached:
// they must not leak to clients.
var ErrExhausted = errors.New("all credentials exhausted")

// Attempt is one generation try against a single credential.
type Attempt func(ctx context.Context) (string, error)

// FirstSuccess runs attempts in order and returns the first successful
// result with its index. Iteration stops immediately on success; later
// attempts are never invoked. A failing attempt never aborts the whole
// request. When every attempt fails, ErrExhausted is returned. Free of I/O
// so the failover policy is unit-testable independent of the network.
func FirstSuccess(ctx context.Context, attempts []Attempt, onError func(index int, err error)) (string, int, error) {
	for i, attempt := range attempts {
		if err := ctx.Err(); err != nil {
			return "", -1, err
		}

		result, err := attempt(ctx)
		if err == nil {
			return result, i, nil
		}
		if onError != nil {
			onError(i, err)
		}
	}
	return "", -1, ErrExhausted
}
