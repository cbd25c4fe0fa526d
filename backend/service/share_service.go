package service

import (
	"context"
	"errors"
	"time"

	"github.com/zaunist/filebox/backend/common"
	"github.com/zaunist/filebox/backend/filestore"
	"github.com/zaunist/filebox/backend/model"
)

// ShareRequest carries the caller-controllable share parameters. Zero values
// mean "apply policy defaults": hours for authenticated shares, a shorter
// window for anonymous ones, unlimited downloads.
type ShareRequest struct {
	Code          string `json:"code"`
	ExpiresIn     *int   `json:"expires_in"`     // hours; nil = default, must be > 0 when given
	DownloadLimit *int   `json:"download_limit"` // nil = default (unlimited), must be > 0 when given
}

func resolveShareExpiry(req *ShareRequest, anonymous bool) (*time.Time, error) {
	hours := common.GetDefaultShareExpiryHours()
	if anonymous {
		hours = common.GetAnonymousShareExpiryHours()
	}
	if req.ExpiresIn != nil {
		if *req.ExpiresIn <= 0 {
			return nil, common.NewError(common.KindInvalidInput, "invalid_expiry")
		}
		hours = *req.ExpiresIn
	}
	if hours <= 0 {
		// Policy configured to "never expire".
		return nil, nil
	}
	t := time.Now().Add(time.Duration(hours) * time.Hour)
	return &t, nil
}

func resolveDownloadLimit(req *ShareRequest) (int, error) {
	if req.DownloadLimit == nil {
		return common.GetDefaultDownloadLimit(), nil
	}
	if *req.DownloadLimit <= 0 {
		return 0, common.NewError(common.KindInvalidInput, "invalid_download_limit")
	}
	return *req.DownloadLimit, nil
}

// CreateShare creates a share for a file the caller controls. A requested
// code is used as-is or rejected with code_conflict; we never silently
// substitute a generated code for one the caller asked for. Without a
// requested code, generation retries a few times before giving up with
// exhausted_namespace.
func CreateShare(userID int64, isAdmin bool, fileID int64, req *ShareRequest) (*model.Share, error) {
	file, err := model.GetFileById(fileID)
	if err != nil {
		if errors.Is(err, model.ErrRecordNotFound) {
			return nil, common.NewError(common.KindNotFound, "file_not_found")
		}
		return nil, common.WrapError(common.KindInternal, "internal_error", err)
	}
	if file.OwnerID != userID && !isAdmin {
		return nil, common.NewError(common.KindForbidden, "file_access_denied")
	}
	return createShareForFile(file, req, false)
}

func createShareForFile(file *model.File, req *ShareRequest, anonymous bool) (*model.Share, error) {
	expiresAt, err := resolveShareExpiry(req, anonymous)
	if err != nil {
		return nil, err
	}
	limit, err := resolveDownloadLimit(req)
	if err != nil {
		return nil, err
	}

	if req.Code != "" {
		if !common.IsValidShareCode(req.Code) {
			return nil, common.NewError(common.KindInvalidInput, "share_code_invalid_format")
		}
		share, err := model.CreateShare(file.ID, req.Code, expiresAt, limit)
		if errors.Is(err, model.ErrShareCodeTaken) {
			return nil, common.NewError(common.KindCodeConflict, "share_code_already_used")
		}
		if err != nil {
			return nil, common.WrapError(common.KindInternal, "internal_error", err)
		}
		return share, nil
	}

	for i := 0; i < common.ShareCodeGenerateRetries; i++ {
		code, err := common.GenerateShareCode(common.ShareCodeLength)
		if err != nil {
			return nil, common.WrapError(common.KindInternal, "internal_error", err)
		}
		share, err := model.CreateShare(file.ID, code, expiresAt, limit)
		if errors.Is(err, model.ErrShareCodeTaken) {
			continue
		}
		if err != nil {
			return nil, common.WrapError(common.KindInternal, "internal_error", err)
		}
		return share, nil
	}
	return nil, common.NewError(common.KindExhaustedNamespace, "share_code_namespace_exhausted")
}

// ResolveShare answers what a code points at without consuming a download.
// A code whose share expired, ran out of downloads or was deleted gets Gone;
// a code no share ever held gets NotFound. A malformed code by definition
// never named a share, so it reports NotFound too rather than leaking the
// code format through a different status.
func ResolveShare(code string) (*model.Share, *model.File, error) {
	if !common.IsValidShareCode(code) {
		return nil, nil, common.NewError(common.KindNotFound, "share_not_found")
	}
	now := time.Now()
	share, err := model.GetShareByCode(code, now)
	if err != nil {
		if errors.Is(err, model.ErrRecordNotFound) {
			return nil, nil, common.NewError(common.KindNotFound, "share_not_found")
		}
		return nil, nil, common.WrapError(common.KindInternal, "internal_error", err)
	}
	if share.State(now) != model.ShareStateActive {
		return nil, nil, common.NewError(common.KindGone, "share_gone")
	}
	file, err := model.GetFileById(share.FileID)
	if err != nil {
		// The file is gone but the code once worked: Gone, not NotFound.
		return nil, nil, common.NewError(common.KindGone, "share_gone")
	}
	return share, file, nil
}

// DeleteShare retires a share. Owner-or-admin only. When the retired share
// was the last one pointing at an anonymously-uploaded file, the file has no
// remaining reachable path and is removed along with its blob.
func DeleteShare(ctx context.Context, store filestore.Storage, userID int64, isAdmin bool, shareID int64) error {
	share, err := model.GetShareById(shareID)
	if err != nil {
		if errors.Is(err, model.ErrRecordNotFound) {
			return common.NewError(common.KindNotFound, "share_not_found")
		}
		return common.WrapError(common.KindInternal, "internal_error", err)
	}

	file, err := model.GetFileById(share.FileID)
	if err != nil && !errors.Is(err, model.ErrRecordNotFound) {
		return common.WrapError(common.KindInternal, "internal_error", err)
	}
	if file != nil && file.OwnerID != userID && !isAdmin {
		return common.NewError(common.KindForbidden, "share_access_denied")
	}
	if file == nil && !isAdmin {
		return common.NewError(common.KindForbidden, "share_access_denied")
	}

	if err := model.SoftDeleteShare(share.ID); err != nil {
		return common.WrapError(common.KindInternal, "internal_error", err)
	}

	if file != nil && file.IsAnonymous() {
		n, err := model.CountLiveSharesForFile(file.ID)
		if err != nil {
			return common.WrapError(common.KindInternal, "internal_error", err)
		}
		if n == 0 {
			if err := file.Delete(); err != nil {
				return common.WrapError(common.KindInternal, "internal_error", err)
			}
			if err := store.Delete(ctx, file.StoragePath); err != nil {
				common.SysError("failed to delete orphaned blob " + file.StoragePath + ": " + err.Error())
			}
		}
	}
	return nil
}

// ListShares pages the caller's shares, newest first.
func ListShares(ownerID int64, page, pageSize int) ([]*model.ShareListItem, int64, error) {
	items, total, err := model.GetSharesByOwner(ownerID, page, pageSize)
	if err != nil {
		return nil, 0, common.WrapError(common.KindInternal, "internal_error", err)
	}
	return items, total, nil
}
