package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/handrail/pkg/adapters/file"
	"github.com/aretw0/handrail/pkg/domain"
	"github.com/aretw0/handrail/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	ports.RunStateStoreContract(t, file.New[map[string]any](t.TempDir()))
}

func TestFileStore_KeyEscaping(t *testing.T) {
	dir := t.TempDir()
	store := file.New[map[string]any](dir)
	ctx := context.Background()

	state := domain.NewState(map[string]any{})
	require.NoError(t, store.Save(ctx, "wizard/../escape:attempt", state))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "escaped key must stay inside the base directory")

	loaded, err := store.Load(ctx, "wizard/../escape:attempt")
	require.NoError(t, err)
	assert.NotNil(t, loaded)
}

func TestFileStore_CorruptFileTreatedAsAbsent(t *testing.T) {
	dir := t.TempDir()
	store := file.New[map[string]any](dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "wizard", domain.NewState(map[string]any{})))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wizard.json"), []byte("{oops"), 0o644))

	_, err := store.Load(ctx, "wizard")
	assert.ErrorIs(t, err, domain.ErrStateNotFound)
}

func TestFileStore_EmptyKeyRejected(t *testing.T) {
	store := file.New[map[string]any](t.TempDir())
	err := store.Save(context.Background(), "", domain.NewState(map[string]any{}))
	assert.Error(t, err)
}
