package handler

import (
	"net/http"
	"strconv"

	"github.com/zaunist/filebox/backend/common"
	"github.com/zaunist/filebox/backend/service"

	"github.com/gin-gonic/gin"
)

func parsePagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(common.ItemsPerPage)))
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = common.ItemsPerPage
	}
	if limit > common.MaxItemsPerPage {
		limit = common.MaxItemsPerPage
	}
	return page, limit
}

func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		common.RespErrorKind(c, common.KindInvalidInput, "invalid_request")
		return 0, false
	}
	return id, true
}

// optionalIntForm parses an optional positive-int form field. The distinction
// between "absent" and "present but bad" matters: absent means policy
// default, bad means invalid_input.
func optionalIntForm(c *gin.Context, field string) (*int, bool) {
	raw := c.PostForm(field)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		common.RespErrorKind(c, common.KindInvalidInput, "invalid_request")
		return nil, false
	}
	return &v, true
}

// Upload stores a file for the authenticated user.
func Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		common.RespErrorKind(c, common.KindInvalidInput, "invalid_file")
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		common.RespErrorKind(c, common.KindInvalidInput, "invalid_file")
		return
	}
	defer src.Close()

	in := &service.UploadInput{
		OwnerID:     c.GetInt64("user_id"),
		Name:        fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		IsPublic:    c.PostForm("is_public") == "true",
	}
	file, err := service.UploadFile(c.Request.Context(), blobStore, in, src)
	if err != nil {
		common.RespError(c, err)
		return
	}
	common.RespCreated(c, file)
}

// UploadAnonymous stores a file without an account and immediately creates
// the share that is its only access path. If the share cannot be created the
// upload is rolled back wholesale, since an anonymous file with no share is
// unreachable forever.
func UploadAnonymous(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		common.RespErrorKind(c, common.KindInvalidInput, "invalid_file")
		return
	}

	shareReq := &service.ShareRequest{Code: c.PostForm("code")}
	var ok bool
	if shareReq.ExpiresIn, ok = optionalIntForm(c, "expires_in"); !ok {
		return
	}
	if shareReq.DownloadLimit, ok = optionalIntForm(c, "download_limit"); !ok {
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		common.RespErrorKind(c, common.KindInvalidInput, "invalid_file")
		return
	}
	defer src.Close()

	in := &service.UploadInput{
		Name:        fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
	}
	file, err := service.UploadFile(c.Request.Context(), blobStore, in, src)
	if err != nil {
		common.RespError(c, err)
		return
	}

	share, err := service.CreateShareForUpload(file, shareReq)
	if err != nil {
		if delErr := service.DeleteFile(c.Request.Context(), blobStore, 0, true, file.ID); delErr != nil {
			common.SysError("failed to roll back anonymous upload: " + delErr.Error())
		}
		common.RespError(c, err)
		return
	}

	common.RespCreated(c, gin.H{
		"file":  file,
		"share": share,
	})
}

// GetFiles lists the caller's files.
func GetFiles(c *gin.Context) {
	page, limit := parsePagination(c)
	files, total, err := service.ListFiles(c.GetInt64("user_id"), page, limit)
	if err != nil {
		common.RespError(c, err)
		return
	}
	common.RespSuccess(c, gin.H{
		"items": files,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetFile returns one file's metadata.
func GetFile(c *gin.Context) {
	fileID, ok := parseIDParam(c)
	if !ok {
		return
	}
	isAdmin := c.GetInt("role") >= common.RoleAdminUser
	file, err := service.GetFile(c.GetInt64("user_id"), isAdmin, fileID)
	if err != nil {
		common.RespError(c, err)
		return
	}
	common.RespSuccess(c, file)
}

// DeleteFile removes a file, its shares and its bytes.
func DeleteFile(c *gin.Context) {
	fileID, ok := parseIDParam(c)
	if !ok {
		return
	}
	isAdmin := c.GetInt("role") >= common.RoleAdminUser
	err := service.DeleteFile(c.Request.Context(), blobStore, c.GetInt64("user_id"), isAdmin, fileID)
	if err != nil {
		common.RespError(c, err)
		return
	}
	common.RespSuccessStr(c, "file deleted")
}

// DownloadFile streams a file's bytes on the owner path.
func DownloadFile(c *gin.Context) {
	fileID, ok := parseIDParam(c)
	if !ok {
		return
	}
	isAdmin := c.GetInt("role") >= common.RoleAdminUser
	payload, err := service.OpenForOwner(c.Request.Context(), blobStore, c.GetInt64("user_id"), isAdmin, fileID)
	if err != nil {
		common.RespError(c, err)
		return
	}
	defer payload.Content.Close()
	servePayload(c, payload)
}

// servePayload writes the blob stream out with download headers. Shared by
// the owner path and the share-code path.
func servePayload(c *gin.Context, payload *service.DownloadPayload) {
	contentType := payload.File.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, payload.File.Size, contentType, payload.Content, map[string]string{
		"Content-Disposition": `attachment; filename="` + payload.File.Name + `"`,
	})
}
