package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileStore_StartsEmptyWhenFileMissing(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "used_titles.json"))

	require.Equal(t, 0, store.Len())
	require.False(t, store.Contains("anything"))
}

func TestFileStore_StartsEmptyWhenFileCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "used_titles.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	store := NewFileStore(path)
	require.Equal(t, 0, store.Len())
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "used_titles.json")
	ctx := context.Background()

	store := NewFileStore(path)
	require.NoError(t, store.Add(ctx, "Topic A"))
	require.NoError(t, store.Add(ctx, "Topic B"))

	// Reload simulates a process restart.
	reloaded := NewFileStore(path)
	require.Equal(t, []string{"Topic A", "Topic B"}, reloaded.Titles())
	require.True(t, reloaded.Contains("Topic A"))
	require.True(t, reloaded.Contains("Topic B"))
	require.False(t, reloaded.Contains("Topic C"))
}

func TestFileStore_AddIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "used_titles.json")
	ctx := context.Background()

	store := NewFileStore(path)
	require.NoError(t, store.Add(ctx, "Topic A"))
	require.NoError(t, store.Add(ctx, "Topic A"))

	require.Equal(t, 1, store.Len())
	require.True(t, store.Contains("Topic A"))

	reloaded := NewFileStore(path)
	require.Equal(t, []string{"Topic A"}, reloaded.Titles())
}

func TestFileStore_MembershipIsCaseSensitive(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "used_titles.json"))
	require.NoError(t, store.Add(context.Background(), "Topic A"))

	require.True(t, store.Contains("Topic A"))
	require.False(t, store.Contains("topic a"))
}
