package handler

import (
	"errors"
	"io"

	"github.com/zaunist/filebox/backend/common"
	"github.com/zaunist/filebox/backend/service"

	"github.com/gin-gonic/gin"
)

// CreateShare attaches a share code to one of the caller's files.
func CreateShare(c *gin.Context) {
	fileID, ok := parseIDParam(c)
	if !ok {
		return
	}

	// An empty body is fine: every field has a policy default.
	var req service.ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		common.RespInvalidInput(c, err)
		return
	}

	isAdmin := c.GetInt("role") >= common.RoleAdminUser
	share, err := service.CreateShare(c.GetInt64("user_id"), isAdmin, fileID, &req)
	if err != nil {
		common.RespError(c, err)
		return
	}
	common.RespCreated(c, share)
}

// GetShares lists the caller's shares.
func GetShares(c *gin.Context) {
	page, limit := parsePagination(c)
	items, total, err := service.ListShares(c.GetInt64("user_id"), page, limit)
	if err != nil {
		common.RespError(c, err)
		return
	}
	common.RespSuccess(c, gin.H{
		"items": items,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// shareMetadata is the public view of a resolved code: enough to render a
// download page, nothing that identifies the uploader.
type shareMetadata struct {
	Code          string `json:"code"`
	FileName      string `json:"file_name"`
	FileSize      int64  `json:"file_size"`
	ContentType   string `json:"content_type"`
	ExpiresAt     string `json:"expires_at,omitempty"`
	DownloadLimit int    `json:"download_limit"`
	DownloadCount int    `json:"download_count"`
}

// ResolveShare answers what a code points at without consuming a download.
func ResolveShare(c *gin.Context) {
	share, file, err := service.ResolveShare(c.Param("code"))
	if err != nil {
		common.RespError(c, err)
		return
	}

	meta := shareMetadata{
		Code:          share.Code,
		FileName:      file.Name,
		FileSize:      file.Size,
		ContentType:   file.ContentType,
		DownloadLimit: share.DownloadLimit,
		DownloadCount: share.DownloadCount,
	}
	if share.ExpiresAt != nil {
		meta.ExpiresAt = common.FormatTime(*share.ExpiresAt)
	}
	common.RespSuccess(c, meta)
}

// DownloadShared consumes one download slot and streams the bytes.
func DownloadShared(c *gin.Context) {
	payload, err := service.OpenForCode(c.Request.Context(), blobStore, c.Param("code"))
	if err != nil {
		common.RespError(c, err)
		return
	}
	defer payload.Content.Close()
	servePayload(c, payload)
}

// DeleteShare retires one of the caller's shares.
func DeleteShare(c *gin.Context) {
	shareID, ok := parseIDParam(c)
	if !ok {
		return
	}
	isAdmin := c.GetInt("role") >= common.RoleAdminUser
	err := service.DeleteShare(c.Request.Context(), blobStore, c.GetInt64("user_id"), isAdmin, shareID)
	if err != nil {
		common.RespError(c, err)
		return
	}
	common.RespSuccessStr(c, "share deleted")
}
