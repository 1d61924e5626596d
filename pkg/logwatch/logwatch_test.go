package logwatch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWatcherDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meshlab.log")

	changes := make(chan string, 8)
	w, err := New(path, 100*time.Millisecond, func(p string) { changes <- p })
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("Mesh Volume is 1.0\n"), 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.log"), []byte("x"), 0644))

	select {
	case got := <-changes:
		require.Equal(t, w.Path(), got)
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}

	// Quick successive writes collapse into a single notification.
	select {
	case got := <-changes:
		t.Fatalf("unexpected second notification for %s", got)
	case <-time.After(300 * time.Millisecond):
	}

	cancel()
	require.NoError(t, <-done)
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope", "meshlab.log"), 0, func(string) {})
	require.Error(t, err)
}
