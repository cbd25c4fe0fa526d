package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/zaunist/filebox/backend/common"
	"github.com/zaunist/filebox/backend/model"

	"github.com/stretchr/testify/assert"
)

func TestOpenForOwnerAuthorization(t *testing.T) {
	teardown := setupTestDB(t)
	defer teardown()
	store := newTestStore(t)
	ctx := context.Background()

	owner := mustCreateUser(t, "alice@example.com")
	file := mustUpload(t, store, owner.ID)

	payload, err := OpenForOwner(ctx, store, owner.ID, false, file.ID)
	assert.NoError(t, err)
	body, err := io.ReadAll(payload.Content)
	assert.NoError(t, err)
	assert.NoError(t, payload.Content.Close())
	assert.Equal(t, "hello filebox", string(body))
	assert.Nil(t, payload.Share, "owner path carries no share")

	// A stranger gets Forbidden, not NotFound: the file exists, they may
	// just not have it.
	_, err = OpenForOwner(ctx, store, owner.ID+1, false, file.ID)
	assert.Equal(t, common.KindForbidden, common.KindOf(err))

	// Admins read anything.
	payload, err = OpenForOwner(ctx, store, owner.ID+1, true, file.ID)
	assert.NoError(t, err)
	assert.NoError(t, payload.Content.Close())
}

func TestOpenForOwnerPublicFile(t *testing.T) {
	teardown := setupTestDB(t)
	defer teardown()
	store := newTestStore(t)
	ctx := context.Background()

	owner := mustCreateUser(t, "alice@example.com")
	file, err := UploadFile(ctx, store, &UploadInput{
		OwnerID:     owner.ID,
		Name:        "readme.txt",
		ContentType: "text/plain",
		IsPublic:    true,
	}, strings.NewReader("for everyone"))
	assert.NoError(t, err)

	payload, err := OpenForOwner(ctx, store, owner.ID+1, false, file.ID)
	assert.NoError(t, err)
	body, err := io.ReadAll(payload.Content)
	assert.NoError(t, err)
	assert.NoError(t, payload.Content.Close())
	assert.Equal(t, "for everyone", string(body))
}

func TestOpenForOwnerNotFound(t *testing.T) {
	teardown := setupTestDB(t)
	defer teardown()
	store := newTestStore(t)

	_, err := OpenForOwner(context.Background(), store, 1, false, 9999)
	assert.Equal(t, common.KindNotFound, common.KindOf(err))
}

func TestOpenForCodeMalformedCode(t *testing.T) {
	teardown := setupTestDB(t)
	defer teardown()
	store := newTestStore(t)

	// Too short to ever have been issued; indistinguishable from a code
	// that simply does not exist.
	_, err := OpenForCode(context.Background(), store, "abc")
	assert.Equal(t, common.KindNotFound, common.KindOf(err))
}

func TestGetFileAuthorization(t *testing.T) {
	teardown := setupTestDB(t)
	defer teardown()
	store := newTestStore(t)

	owner := mustCreateUser(t, "alice@example.com")
	file := mustUpload(t, store, owner.ID)

	got, err := GetFile(owner.ID, false, file.ID)
	assert.NoError(t, err)
	assert.Equal(t, file.ID, got.ID)

	_, err = GetFile(owner.ID+1, false, file.ID)
	assert.Equal(t, common.KindForbidden, common.KindOf(err))

	_, err = GetFile(owner.ID+1, true, file.ID)
	assert.NoError(t, err)
}

func TestDeleteFileForbidden(t *testing.T) {
	teardown := setupTestDB(t)
	defer teardown()
	store := newTestStore(t)
	ctx := context.Background()

	owner := mustCreateUser(t, "alice@example.com")
	file := mustUpload(t, store, owner.ID)

	err := DeleteFile(ctx, store, owner.ID+1, false, file.ID)
	assert.Equal(t, common.KindForbidden, common.KindOf(err))

	// The refused delete must not have touched the row.
	_, err = model.GetFileById(file.ID)
	assert.NoError(t, err)

	assert.NoError(t, DeleteFile(ctx, store, owner.ID, false, file.ID))
	_, err = model.GetFileById(file.ID)
	assert.ErrorIs(t, err, model.ErrRecordNotFound)
}
