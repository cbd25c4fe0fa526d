package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/zaunist/filebox/backend/common"
	"github.com/zaunist/filebox/backend/filestore"
	"github.com/zaunist/filebox/backend/model"

	"github.com/stretchr/testify/assert"
)

func newTestStore(t *testing.T) filestore.Storage {
	store, err := filestore.NewLocalStorage(t.TempDir())
	assert.NoError(t, err)
	return store
}

func mustUpload(t *testing.T, store filestore.Storage, ownerID int64) *model.File {
	file, err := UploadFile(context.Background(), store, &UploadInput{
		OwnerID:     ownerID,
		Name:        "notes.txt",
		ContentType: "text/plain",
	}, strings.NewReader("hello filebox"))
	assert.NoError(t, err)
	return file
}

func TestCreateShareWithGeneratedCodeDefaults(t *testing.T) {
	teardown := setupTestDB(t)
	defer teardown()
	store := newTestStore(t)

	user := mustCreateUser(t, "alice@example.com")
	file := mustUpload(t, store, user.ID)

	share, err := CreateShare(user.ID, false, file.ID, &ShareRequest{})
	assert.NoError(t, err)
	assert.Len(t, share.Code, common.ShareCodeLength)
	assert.Equal(t, 0, share.DownloadLimit, "default is unlimited")
	if assert.NotNil(t, share.ExpiresAt, "authenticated default expiry applies") {
		expected := time.Now().Add(time.Duration(common.GetDefaultShareExpiryHours()) * time.Hour)
		assert.WithinDuration(t, expected, *share.ExpiresAt, time.Minute)
	}
}

func TestCreateShareRequestedCodeConflict(t *testing.T) {
	teardown := setupTestDB(t)
	defer teardown()
	store := newTestStore(t)

	user := mustCreateUser(t, "alice@example.com")
	file := mustUpload(t, store, user.ID)

	_, err := CreateShare(user.ID, false, file.ID, &ShareRequest{Code: "mycode"})
	assert.NoError(t, err)

	// The requested code is never silently replaced by a generated one.
	_, err = CreateShare(user.ID, false, file.ID, &ShareRequest{Code: "mycode"})
	assert.Equal(t, common.KindCodeConflict, common.KindOf(err))
}

func TestCreateShareValidation(t *testing.T) {
	teardown := setupTestDB(t)
	defer teardown()
	store := newTestStore(t)

	user := mustCreateUser(t, "alice@example.com")
	file := mustUpload(t, store, user.ID)

	badExpiry := -1
	_, err := CreateShare(user.ID, false, file.ID, &ShareRequest{ExpiresIn: &badExpiry})
	assert.Equal(t, common.KindInvalidInput, common.KindOf(err))

	badLimit := 0
	_, err = CreateShare(user.ID, false, file.ID, &ShareRequest{DownloadLimit: &badLimit})
	assert.Equal(t, common.KindInvalidInput, common.KindOf(err))

	_, err = CreateShare(user.ID, false, file.ID, &ShareRequest{Code: "bad code!"})
	assert.Equal(t, common.KindInvalidInput, common.KindOf(err))
}

func TestCreateShareForeignFileForbidden(t *testing.T) {
	teardown := setupTestDB(t)
	defer teardown()
	store := newTestStore(t)

	owner := mustCreateUser(t, "alice@example.com")
	file := mustUpload(t, store, owner.ID)

	_, err := CreateShare(owner.ID+1, false, file.ID, &ShareRequest{})
	assert.Equal(t, common.KindForbidden, common.KindOf(err))

	// Admins may share any file.
	_, err = CreateShare(owner.ID+1, true, file.ID, &ShareRequest{})
	assert.NoError(t, err)
}

func TestAnonymousUploadDefaults(t *testing.T) {
	teardown := setupTestDB(t)
	defer teardown()
	store := newTestStore(t)

	file := mustUpload(t, store, 0)
	share, err := CreateShareForUpload(file, &ShareRequest{})
	assert.NoError(t, err)

	assert.Len(t, share.Code, common.ShareCodeLength)
	assert.Equal(t, 0, share.DownloadLimit, "anonymous shares default to unlimited downloads")
	if assert.NotNil(t, share.ExpiresAt, "anonymous shares always expire") {
		expected := time.Now().Add(time.Duration(common.GetAnonymousShareExpiryHours()) * time.Hour)
		assert.WithinDuration(t, expected, *share.ExpiresAt, time.Minute)
	}
}

func TestResolveShareGoneVsNotFound(t *testing.T) {
	teardown := setupTestDB(t)
	defer teardown()
	store := newTestStore(t)

	user := mustCreateUser(t, "alice@example.com")
	file := mustUpload(t, store, user.ID)
	share, err := CreateShare(user.ID, false, file.ID, &ShareRequest{Code: "myfile"})
	assert.NoError(t, err)

	_, resolvedFile, err := ResolveShare("myfile")
	assert.NoError(t, err)
	assert.Equal(t, file.ID, resolvedFile.ID)

	_, _, err = ResolveShare("never1")
	assert.Equal(t, common.KindNotFound, common.KindOf(err))

	// A malformed code never named a share either.
	_, _, err = ResolveShare("ab")
	assert.Equal(t, common.KindNotFound, common.KindOf(err))

	assert.NoError(t, DeleteShare(context.Background(), store, user.ID, false, share.ID))
	_, _, err = ResolveShare("myfile")
	assert.Equal(t, common.KindGone, common.KindOf(err))
}

func TestDeleteLastShareCascadesAnonymousFile(t *testing.T) {
	teardown := setupTestDB(t)
	defer teardown()
	store := newTestStore(t)

	file := mustUpload(t, store, 0)
	share, err := CreateShareForUpload(file, &ShareRequest{})
	assert.NoError(t, err)

	// Anonymous shares belong to nobody, so only an admin can delete them.
	err = DeleteShare(context.Background(), store, 42, false, share.ID)
	assert.Equal(t, common.KindForbidden, common.KindOf(err))

	assert.NoError(t, DeleteShare(context.Background(), store, 0, true, share.ID))

	// The file had no other path to it and is gone with the share.
	_, err = model.GetFileById(file.ID)
	assert.ErrorIs(t, err, model.ErrRecordNotFound)

	_, openErr := store.Open(context.Background(), file.StoragePath)
	assert.ErrorIs(t, openErr, filestore.ErrNotFound, "blob must be cleaned up")
}

func TestUploadSizeCap(t *testing.T) {
	teardown := setupTestDB(t)
	defer teardown()
	store := newTestStore(t)

	// Shrink the cap for the test via the option layer.
	model.UpdateOptionMap("MaxFileSize", "16")
	defer model.UpdateOptionMap("MaxFileSize", "")

	_, err := UploadFile(context.Background(), store, &UploadInput{
		OwnerID: 1,
		Name:    "big.bin",
	}, strings.NewReader(strings.Repeat("x", 17)))
	assert.Equal(t, common.KindInvalidInput, common.KindOf(err))

	file, err := UploadFile(context.Background(), store, &UploadInput{
		OwnerID: 1,
		Name:    "fits.bin",
	}, strings.NewReader(strings.Repeat("x", 16)))
	assert.NoError(t, err)
	assert.Equal(t, int64(16), file.Size)
}
