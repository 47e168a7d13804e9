package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/linemark-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testMarker(id string, line int) *domain.Marker {
	return &domain.Marker{
		ID:               id,
		FilePath:         "/tmp/project/main.go",
		LineNumber:       line,
		ContentAnchor:    "func main() {",
		LastKnownContent: "func main() {",
		TrackingEnabled:  true,
	}
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	store := newTestStore(t)
	assert.NotEmpty(t, store.Path())

	// Migrations are idempotent: reopening the same directory works.
	again, err := NewStore(filepath.Dir(store.Path()))
	require.NoError(t, err)
	require.NoError(t, again.Close())
}

func TestStore_SaveAndGetMarker(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveMarker(ctx, testMarker("m-1", 10)))

	got, err := store.GetMarker(ctx, "m-1")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/project/main.go", got.FilePath)
	assert.Equal(t, 10, got.LineNumber)
	assert.Equal(t, "func main() {", got.ContentAnchor)
	assert.True(t, got.TrackingEnabled)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestStore_SaveMarker_Upsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveMarker(ctx, testMarker("m-1", 10)))

	updated := testMarker("m-1", 42)
	updated.Label = "entry point"
	require.NoError(t, store.SaveMarker(ctx, updated))

	got, err := store.GetMarker(ctx, "m-1")
	require.NoError(t, err)
	assert.Equal(t, 42, got.LineNumber)
	assert.Equal(t, "entry point", got.Label)
}

func TestStore_GetMarker_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetMarker(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_GetMarkersForFile(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveMarker(ctx, testMarker("m-1", 30)))
	require.NoError(t, store.SaveMarker(ctx, testMarker("m-2", 5)))

	other := testMarker("m-3", 1)
	other.FilePath = "/tmp/project/other.go"
	require.NoError(t, store.SaveMarker(ctx, other))

	markers, err := store.GetMarkersForFile(ctx, "/tmp/project/main.go")
	require.NoError(t, err)
	require.Len(t, markers, 2)
	assert.Equal(t, "m-2", markers[0].ID)
	assert.Equal(t, "m-1", markers[1].ID)
}

func TestStore_UpdateMarker_Partial(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveMarker(ctx, testMarker("m-1", 10)))

	line := 12
	anchor := "func main() { // moved"
	require.NoError(t, store.UpdateMarker(ctx, "m-1", domain.MarkerUpdate{
		LineNumber:    &line,
		ContentAnchor: &anchor,
	}))

	got, err := store.GetMarker(ctx, "m-1")
	require.NoError(t, err)
	assert.Equal(t, 12, got.LineNumber)
	assert.Equal(t, anchor, got.ContentAnchor)
	assert.Equal(t, "func main() {", got.LastKnownContent)
}

func TestStore_UpdateMarker_Validation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveMarker(ctx, testMarker("m-1", 10)))

	zero := 0
	assert.ErrorIs(t, store.UpdateMarker(ctx, "m-1", domain.MarkerUpdate{LineNumber: &zero}), domain.ErrInvalidInput)

	line := 3
	assert.ErrorIs(t, store.UpdateMarker(ctx, "missing", domain.MarkerUpdate{LineNumber: &line}), domain.ErrNotFound)

	// An empty update is a no-op, not an error.
	assert.NoError(t, store.UpdateMarker(ctx, "m-1", domain.MarkerUpdate{}))
}

func TestStore_RemoveMarker(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveMarker(ctx, testMarker("m-1", 10)))
	require.NoError(t, store.RemoveMarker(ctx, "m-1"))

	_, err := store.GetMarker(ctx, "m-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.NoError(t, store.RemoveMarker(ctx, "m-1"))
}

func TestStore_ListFiles(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveMarker(ctx, testMarker("m-1", 1)))
	other := testMarker("m-2", 2)
	other.FilePath = "/tmp/project/alpha.go"
	require.NoError(t, store.SaveMarker(ctx, other))

	files, err := store.ListFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"/tmp/project/alpha.go", "/tmp/project/main.go"}, files)
}
