package common

import (
	"errors"
	"net/http"
	"time"

	"github.com/zaunist/filebox/backend/common/i18n"

	"github.com/gin-gonic/gin"
)

// APIResponse standard format for API responses
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Error   string      `json:"error,omitempty"` // machine-distinguishable kind on failures
	Data    interface{} `json:"data,omitempty"`
}

// Time format constants
const (
	RFC3339MilliZ = "2006-01-02T15:04:05.000Z07:00"
)

// RespSuccess responds with success and returns data
func RespSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "",
		Data:    data,
	})
}

// RespSuccessStr responds with success and returns message
func RespSuccessStr(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: msg,
	})
}

// RespCreated responds with 201 and returns data
func RespCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Message: "",
		Data:    data,
	})
}

// RespError maps a service error onto status, kind and translated message.
// Errors without an APIError in their chain are reported as internal.
func RespError(c *gin.Context, err error) {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		apiErr = &APIError{Kind: KindInternal, Message: "internal_error", Err: err}
	}
	c.JSON(StatusForKind(apiErr.Kind), APIResponse{
		Success: false,
		Message: i18n.Translate(apiErr.Message, c.GetString("lang")),
		Error:   string(apiErr.Kind),
	})
}

// RespErrorKind responds with an explicit kind and message key.
func RespErrorKind(c *gin.Context, kind ErrorKind, msgKey string) {
	c.JSON(StatusForKind(kind), APIResponse{
		Success: false,
		Message: i18n.Translate(msgKey, c.GetString("lang")),
		Error:   string(kind),
	})
}

// RespInvalidInput is the shorthand for malformed request payloads.
func RespInvalidInput(c *gin.Context, err error) {
	msg := i18n.Translate("invalid_request", c.GetString("lang"))
	if err != nil {
		msg = msg + ": " + err.Error()
	}
	c.JSON(http.StatusBadRequest, APIResponse{
		Success: false,
		Message: msg,
		Error:   string(KindInvalidInput),
	})
}

// FormatTime formats time to RFC3339MilliZ format
func FormatTime(t time.Time) string {
	return t.Format(RFC3339MilliZ)
}
