package filestore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	assert.NoError(t, err)
	ctx := context.Background()

	content := "hello filebox"
	key, hash, size, err := store.Save(ctx, strings.NewReader(content))
	assert.NoError(t, err)
	assert.Equal(t, int64(len(content)), size)

	sum := sha256.Sum256([]byte(content))
	assert.Equal(t, hex.EncodeToString(sum[:]), hash)

	rc, err := store.Open(ctx, key)
	assert.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	assert.NoError(t, err)
	assert.Equal(t, content, string(got))
}

func TestLocalStorageDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	assert.NoError(t, err)
	ctx := context.Background()

	key, _, _, err := store.Save(ctx, strings.NewReader("bytes"))
	assert.NoError(t, err)

	assert.NoError(t, store.Delete(ctx, key))
	_, err = store.Open(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting an already-deleted blob is a no-op.
	assert.NoError(t, store.Delete(ctx, key))
}

func TestLocalStorageKeysAreUnique(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	assert.NoError(t, err)
	ctx := context.Background()

	k1, _, _, err := store.Save(ctx, strings.NewReader("same"))
	assert.NoError(t, err)
	k2, _, _, err := store.Save(ctx, strings.NewReader("same"))
	assert.NoError(t, err)
	assert.NotEqual(t, k1, k2, "identical content still gets distinct keys")
}
