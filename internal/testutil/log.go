package testutil

import (
	"io"
	"log/slog"
	"testing"
)

// SilenceLogs routes the default slog output to io.Discard for the duration
// of a test, restoring the previous logger on cleanup.
func SilenceLogs(t *testing.T) {
	t.Helper()
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
}
