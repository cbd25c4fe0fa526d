package service

import (
	"context"
	"errors"
	"io"

	"github.com/zaunist/filebox/backend/common"
	"github.com/zaunist/filebox/backend/filestore"
	"github.com/zaunist/filebox/backend/model"
)

// UploadInput is the metadata accompanying an upload stream.
type UploadInput struct {
	OwnerID     int64 // 0 for anonymous uploads
	Name        string
	ContentType string
	IsPublic    bool
}

func maxUploadSize(anonymous bool) int64 {
	if anonymous {
		return common.GetMaxAnonymousFileSize()
	}
	return common.GetMaxFileSize()
}

// UploadFile streams content into the blob store and records the metadata
// row. The blob goes in first; if the metadata write then fails, the blob is
// removed again so the store never accumulates unreferenced objects. The
// size cap is enforced on the stream itself, not on a client-declared
// length.
func UploadFile(ctx context.Context, store filestore.Storage, in *UploadInput, r io.Reader) (*model.File, error) {
	if in.Name == "" {
		return nil, common.NewError(common.KindInvalidInput, "invalid_file")
	}
	maxSize := maxUploadSize(in.OwnerID == 0)

	// Read one byte past the cap so an exactly-at-cap upload passes and an
	// over-cap one is caught without buffering the whole excess.
	key, hash, size, err := store.Save(ctx, io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, common.WrapError(common.KindStoreUnavailable, "store_unavailable", err)
	}
	if size == 0 {
		_ = store.Delete(ctx, key)
		return nil, common.NewError(common.KindInvalidInput, "invalid_file")
	}
	if size > maxSize {
		_ = store.Delete(ctx, key)
		return nil, common.NewError(common.KindInvalidInput, "file_too_large")
	}

	file := &model.File{
		OwnerID:     in.OwnerID,
		Name:        in.Name,
		Size:        size,
		ContentType: in.ContentType,
		StoragePath: key,
		Hash:        hash,
		IsPublic:    in.IsPublic,
	}
	if err := file.Insert(); err != nil {
		if delErr := store.Delete(ctx, key); delErr != nil {
			common.SysError("failed to roll back blob " + key + ": " + delErr.Error())
		}
		return nil, common.WrapError(common.KindInternal, "internal_error", err)
	}
	return file, nil
}

// CreateShareForUpload attaches a share to a freshly-uploaded file, applying
// the anonymous policy defaults when the file has no owner.
func CreateShareForUpload(file *model.File, req *ShareRequest) (*model.Share, error) {
	return createShareForFile(file, req, file.IsAnonymous())
}

// GetFile returns metadata the caller may see: their own files, any file if
// admin, and files marked public.
func GetFile(userID int64, isAdmin bool, fileID int64) (*model.File, error) {
	file, err := model.GetFileById(fileID)
	if err != nil {
		if errors.Is(err, model.ErrRecordNotFound) {
			return nil, common.NewError(common.KindNotFound, "file_not_found")
		}
		return nil, common.WrapError(common.KindInternal, "internal_error", err)
	}
	if file.OwnerID != userID && !isAdmin && !file.IsPublic {
		return nil, common.NewError(common.KindForbidden, "file_access_denied")
	}
	return file, nil
}

// ListFiles pages the caller's own files, newest first.
func ListFiles(ownerID int64, page, pageSize int) ([]*model.File, int64, error) {
	files, total, err := model.GetFilesByOwner(ownerID, page, pageSize)
	if err != nil {
		return nil, 0, common.WrapError(common.KindInternal, "internal_error", err)
	}
	return files, total, nil
}

// DeleteFile removes a file the caller owns (or any file, for admins). Its
// shares are tombstoned with the metadata row, then the blob goes; a blob
// the store fails to drop is logged, not surfaced, because the file is
// already unreachable.
func DeleteFile(ctx context.Context, store filestore.Storage, userID int64, isAdmin bool, fileID int64) error {
	file, err := model.GetFileById(fileID)
	if err != nil {
		if errors.Is(err, model.ErrRecordNotFound) {
			return common.NewError(common.KindNotFound, "file_not_found")
		}
		return common.WrapError(common.KindInternal, "internal_error", err)
	}
	if file.OwnerID != userID && !isAdmin {
		return common.NewError(common.KindForbidden, "file_access_denied")
	}
	if err := file.Delete(); err != nil {
		return common.WrapError(common.KindInternal, "internal_error", err)
	}
	if err := store.Delete(ctx, file.StoragePath); err != nil {
		common.SysError("failed to delete blob " + file.StoragePath + ": " + err.Error())
	}
	return nil
}
