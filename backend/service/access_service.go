package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/zaunist/filebox/backend/common"
	"github.com/zaunist/filebox/backend/filestore"
	"github.com/zaunist/filebox/backend/model"
)

// DownloadPayload is what both download paths hand to the byte-serving
// handler. Share is nil on the owner path. The caller closes Content.
type DownloadPayload struct {
	File    *model.File
	Share   *model.Share
	Content io.ReadCloser
}

func openBlob(ctx context.Context, store filestore.Storage, file *model.File) (io.ReadCloser, error) {
	rc, err := store.Open(ctx, file.StoragePath)
	if err != nil {
		// A blob the metadata references but the store cannot serve is an
		// availability problem, never NotFound: the entity exists.
		return nil, common.WrapError(common.KindStoreUnavailable, "store_unavailable", err)
	}
	return rc, nil
}

// OpenForOwner serves the authenticated download path: the owner, an admin,
// or anyone when the file is public.
func OpenForOwner(ctx context.Context, store filestore.Storage, userID int64, isAdmin bool, fileID int64) (*DownloadPayload, error) {
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

	rc, err := openBlob(ctx, store, file)
	if err != nil {
		return nil, err
	}
	if err := model.IncrementFileDownloadCount(file.ID); err != nil {
		common.SysError("failed to bump download count: " + err.Error())
	}
	return &DownloadPayload{File: file, Content: rc}, nil
}

// OpenForCode serves the share path: one download slot is claimed atomically
// before any bytes move, so the limit holds under concurrency. If the blob
// then fails to open, the slot stays consumed and the failure is surfaced as
// store_unavailable rather than retried, since the claim already committed.
func OpenForCode(ctx context.Context, store filestore.Storage, code string) (*DownloadPayload, error) {
	if !common.IsValidShareCode(code) {
		// A malformed code never named a share.
		return nil, common.NewError(common.KindNotFound, "share_not_found")
	}
	share, err := model.ConsumeShareDownload(code, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, model.ErrRecordNotFound):
			return nil, common.NewError(common.KindNotFound, "share_not_found")
		case errors.Is(err, model.ErrShareGone):
			return nil, common.NewError(common.KindGone, "share_gone")
		default:
			return nil, common.WrapError(common.KindInternal, "internal_error", err)
		}
	}

	file, err := model.GetFileById(share.FileID)
	if err != nil {
		return nil, common.NewError(common.KindGone, "share_gone")
	}

	rc, err := openBlob(ctx, store, file)
	if err != nil {
		return nil, err
	}
	if err := model.IncrementFileDownloadCount(file.ID); err != nil {
		common.SysError("failed to bump download count: " + err.Error())
	}
	return &DownloadPayload{File: file, Share: share, Content: rc}, nil
}
