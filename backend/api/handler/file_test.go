package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zaunist/filebox/backend/common"
	"github.com/zaunist/filebox/backend/filestore"
	"github.com/zaunist/filebox/backend/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupBlobStore(t *testing.T) {
	store, err := filestore.NewLocalStorage(t.TempDir())
	assert.NoError(t, err)
	SetBlobStore(store)
}

func multipartUpload(t *testing.T, fields map[string]string, filename, content string) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	assert.NoError(t, err)
	_, err = io.WriteString(part, content)
	assert.NoError(t, err)
	for k, v := range fields {
		assert.NoError(t, writer.WriteField(k, v))
	}
	assert.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func postMultipart(t *testing.T, handlerFunc gin.HandlerFunc, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, path, body)
	c.Request.Header.Set("Content-Type", contentType)

	handlerFunc(c)
	return w
}

func TestUploadAnonymous_Defaults(t *testing.T) {
	teardown := setupTestDB(t)
	defer teardown()
	setupBlobStore(t)

	body, contentType := multipartUpload(t, nil, "notes.txt", "hello filebox")
	w := postMultipart(t, UploadAnonymous, "/api/files/anonymous", body, contentType)

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decodeEnvelope(t, w)
	assert.True(t, resp.Success)

	var data struct {
		File  *model.File  `json:"file"`
		Share *model.Share `json:"share"`
	}
	assert.NoError(t, json.Unmarshal(resp.Data, &data))

	assert.Equal(t, int64(0), data.File.OwnerID, "anonymous upload has no owner")
	assert.Equal(t, int64(len("hello filebox")), data.File.Size)
	assert.Len(t, data.Share.Code, common.ShareCodeLength, "a code is generated when none is requested")
	assert.Equal(t, 0, data.Share.DownloadLimit, "default is unlimited downloads")
	assert.NotNil(t, data.Share.ExpiresAt, "anonymous default expiry applies")
}

func TestUploadAnonymous_RequestedCode(t *testing.T) {
	teardown := setupTestDB(t)
	defer teardown()
	setupBlobStore(t)

	body, contentType := multipartUpload(t, map[string]string{
		"code":           "pickme",
		"download_limit": "3",
	}, "notes.txt", "hello")
	w := postMultipart(t, UploadAnonymous, "/api/files/anonymous", body, contentType)

	assert.Equal(t, http.StatusCreated, w.Code)
	var data struct {
		Share *model.Share `json:"share"`
	}
	assert.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &data))
	assert.Equal(t, "pickme", data.Share.Code)
	assert.Equal(t, 3, data.Share.DownloadLimit)
}

func TestUploadAnonymous_CodeConflictRollsBackFile(t *testing.T) {
	teardown := setupTestDB(t)
	defer teardown()
	setupBlobStore(t)

	body, contentType := multipartUpload(t, map[string]string{"code": "taken1"}, "a.txt", "first")
	w := postMultipart(t, UploadAnonymous, "/api/files/anonymous", body, contentType)
	assert.Equal(t, http.StatusCreated, w.Code)

	body, contentType = multipartUpload(t, map[string]string{"code": "taken1"}, "b.txt", "second")
	w = postMultipart(t, UploadAnonymous, "/api/files/anonymous", body, contentType)

	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Equal(t, string(common.KindCodeConflict), resp.Error)

	// The rejected upload must not leave an unreachable file behind.
	stats, err := model.GetSystemStats()
	assert.NoError(t, err)
	assert.Equal(t, int64(1), stats.FileCount)
}

func TestDownloadShared_ConsumesSlotAndStreamsBytes(t *testing.T) {
	teardown := setupTestDB(t)
	defer teardown()
	setupBlobStore(t)

	body, contentType := multipartUpload(t, map[string]string{
		"code":           "dltest",
		"download_limit": "1",
	}, "notes.txt", "hello filebox")
	w := postMultipart(t, UploadAnonymous, "/api/files/anonymous", body, contentType)
	assert.Equal(t, http.StatusCreated, w.Code)

	download := func() *httptest.ResponseRecorder {
		gin.SetMode(gin.TestMode)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request, _ = http.NewRequest(http.MethodGet, "/api/shares/dltest/download", nil)
		c.Params = gin.Params{{Key: "code", Value: "dltest"}}
		DownloadShared(c)
		return w
	}

	first := download()
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "hello filebox", first.Body.String())
	assert.Contains(t, first.Header().Get("Content-Disposition"), "notes.txt")

	// The limit was 1, so the second download finds the share exhausted.
	second := download()
	assert.Equal(t, http.StatusGone, second.Code)
	assert.Equal(t, string(common.KindGone), decodeEnvelope(t, second).Error)
}

func TestResolveShare_MetadataOnly(t *testing.T) {
	teardown := setupTestDB(t)
	defer teardown()
	setupBlobStore(t)

	body, contentType := multipartUpload(t, map[string]string{"code": "peekme"}, "notes.txt", "hello")
	w := postMultipart(t, UploadAnonymous, "/api/files/anonymous", body, contentType)
	assert.Equal(t, http.StatusCreated, w.Code)

	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/shares/peekme", nil)
	c.Params = gin.Params{{Key: "code", Value: "peekme"}}
	ResolveShare(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var meta shareMetadata
	assert.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &meta))
	assert.Equal(t, "notes.txt", meta.FileName)
	assert.Equal(t, int64(len("hello")), meta.FileSize)
	// Resolving must not consume a download.
	assert.Equal(t, 0, meta.DownloadCount)
}

func TestResolveShare_UnknownCodeNotFound(t *testing.T) {
	teardown := setupTestDB(t)
	defer teardown()
	setupBlobStore(t)

	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/shares/nope99", nil)
	c.Params = gin.Params{{Key: "code", Value: "nope99"}}
	ResolveShare(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, string(common.KindNotFound), decodeEnvelope(t, rec).Error)
}
