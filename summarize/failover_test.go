package summarize

import (
	"context"
	"errors"
	"testing"
)

func TestFirstSuccessStopsAtFirstWin(t *testing.T) {
	calls := []string{}
	attempts := []Attempt{
		func(ctx context.Context) (string, error) {
			calls = append(calls, "A")
			return "", errors.New("quota exceeded")
		},
		func(ctx context.Context) (string, error) {
			calls = append(calls, "B")
			return "summary from B", nil
		},
		func(ctx context.Context) (string, error) {
			calls = append(calls, "C")
			return "summary from C", nil
		},
	}

	result, index, err := FirstSuccess(context.Background(), attempts, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "summary from B" {
		t.Errorf("expected B's output, got %q", result)
	}
	if index != 1 {
		t.Errorf("expected index 1, got %d", index)
	}
	if len(calls) != 2 || calls[0] != "A" || calls[1] != "B" {
		t.Errorf("expected [A B] invoked, got %v", calls)
	}
}

func TestFirstSuccessExhausted(t *testing.T) {
	var seen []int
	attempts := []Attempt{
		func(ctx context.Context) (string, error) { return "", errors.New("bad key") },
		func(ctx context.Context) (string, error) { return "", errors.New("rate limited") },
	}

	_, _, err := FirstSuccess(context.Background(), attempts, func(i int, err error) {
		seen = append(seen, i)
	})
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
	if len(seen) != 2 || seen[0] != 0 || seen[1] != 1 {
		t.Errorf("expected per-attempt error callbacks [0 1], got %v", seen)
	}
}

func TestFirstSuccessNoAttempts(t *testing.T) {
	_, _, err := FirstSuccess(context.Background(), nil, nil)
	if !errors.Is(err, ErrExhausted) {
		t.Errorf("expected ErrExhausted for empty attempt list, got %v", err)
	}
}

func TestFirstSuccessHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	attempts := []Attempt{
		func(ctx context.Context) (string, error) {
			called = true
			return "never", nil
		},
	}

	if _, _, err := FirstSuccess(ctx, attempts, nil); err == nil {
		t.Error("expected context error")
	}
	if called {
		t.Error("expected no attempt after cancellation")
	}
}
