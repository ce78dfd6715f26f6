package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDedupStore(t *testing.T) {
	ctx := context.Background()
	store, db, err := NewDedupStore(":memory:")
	require.NoError(t, err)
	defer db.Close()

	seen, err := store.Seen(ctx, "device-1", "inv-1")
	require.NoError(t, err)
	require.False(t, seen)

	require.NoError(t, store.MarkSeen(ctx, "device-1", "inv-1"))

	seen, err = store.Seen(ctx, "device-1", "inv-1")
	require.NoError(t, err)
	require.True(t, seen)

	// Marking twice is a no-op, not an error.
	require.NoError(t, store.MarkSeen(ctx, "device-1", "inv-1"))

	// Same device against another invitation is unseen.
	seen, err = store.Seen(ctx, "device-1", "inv-2")
	require.NoError(t, err)
	require.False(t, seen)

	// Another device against the same invitation is unseen.
	seen, err = store.Seen(ctx, "device-2", "inv-1")
	require.NoError(t, err)
	require.False(t, seen)
}
