package handler

import (
	"errors"
	"strings"

	"github.com/zaunist/filebox/backend/common"
	"github.com/zaunist/filebox/backend/model"
	"github.com/zaunist/filebox/backend/service"

	"github.com/gin-gonic/gin"
)

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SessionResponse is the token pair plus the account it belongs to.
type SessionResponse struct {
	*service.TokenPair
	User *model.User `json:"user"`
}

func newSessionResponse(user *model.User) (*SessionResponse, error) {
	pair, err := service.GenerateTokenPair(user)
	if err != nil {
		return nil, err
	}
	return &SessionResponse{TokenPair: pair, User: user}, nil
}

// Register creates an account and logs it in.
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespInvalidInput(c, err)
		return
	}
	if !common.GetRegisterEnabled() {
		common.RespErrorKind(c, common.KindForbidden, "register_disabled")
		return
	}
	if !common.ValidatePasswordPolicy(req.Password) {
		common.RespErrorKind(c, common.KindInvalidInput, "password_policy_violation")
		return
	}
	if model.IsEmailAlreadyTaken(req.Email) {
		common.RespErrorKind(c, common.KindConflict, "email_already_taken")
		return
	}
	if model.IsUsernameAlreadyTaken(req.Username) {
		common.RespErrorKind(c, common.KindConflict, "username_already_taken")
		return
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     common.RoleCommonUser,
		Status:   common.UserStatusEnabled,
	}
	if err := user.Insert(); err != nil {
		common.RespError(c, err)
		return
	}

	resp, err := newSessionResponse(user)
	if err != nil {
		common.RespError(c, err)
		return
	}
	common.RespCreated(c, resp)
}

// Login verifies credentials and issues a token pair. Unknown email and bad
// password report identically.
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespInvalidInput(c, err)
		return
	}

	user := &model.User{
		Email:    req.Email,
		Password: req.Password,
	}
	if err := user.ValidateAndFill(); err != nil {
		common.RespErrorKind(c, common.KindUnauthorized, "invalid_email_or_password")
		return
	}

	resp, err := newSessionResponse(user)
	if err != nil {
		common.RespError(c, err)
		return
	}
	common.RespSuccess(c, resp)
}

// RefreshTokenRequest represents the request body for refreshing a token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshToken rotates the session: the presented refresh token is revoked
// and a fresh pair comes back.
func RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespInvalidInput(c, err)
		return
	}

	pair, err := service.RefreshTokenPair(req.RefreshToken)
	if err != nil {
		common.RespErrorKind(c, common.KindUnauthorized, "invalid_token")
		return
	}
	common.RespSuccess(c, pair)
}

// LogoutRequest represents the request body for logout
type LogoutRequest struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Logout revokes the session's tokens. Always succeeds: logging out an
// already-dead session is not an error, so calling it twice is safe.
func Logout(c *gin.Context) {
	var req LogoutRequest
	_ = c.ShouldBindJSON(&req)

	accessToken := req.AccessToken
	if accessToken == "" {
		if parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2); len(parts) == 2 && parts[0] == "Bearer" {
			accessToken = parts[1]
		}
	}
	service.Logout(accessToken, req.RefreshToken)
	common.RespSuccessStr(c, "logged out")
}

// ChangePasswordRequest represents the request body for a password change
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangePassword rotates the authenticated account's credential. The current
// password is re-verified so a stolen access token alone cannot take over the
// account.
func ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespInvalidInput(c, err)
		return
	}

	user, err := model.GetUserById(c.GetInt64("user_id"))
	if err != nil {
		if errors.Is(err, model.ErrRecordNotFound) {
			common.RespErrorKind(c, common.KindNotFound, "user_not_found")
			return
		}
		common.RespError(c, err)
		return
	}
	if !common.ValidatePasswordAndHash(req.OldPassword, user.Password) {
		common.RespErrorKind(c, common.KindUnauthorized, "invalid_email_or_password")
		return
	}
	if err := model.ResetUserPasswordByEmail(user.Email, req.NewPassword); err != nil {
		if errors.Is(err, model.ErrPasswordPolicy) {
			common.RespErrorKind(c, common.KindInvalidInput, "password_policy_violation")
			return
		}
		common.RespError(c, err)
		return
	}
	common.RespSuccessStr(c, "password updated")
}

// GetSelf returns the authenticated account.
func GetSelf(c *gin.Context) {
	userID := c.GetInt64("user_id")
	user, err := model.GetUserById(userID)
	if err != nil {
		if errors.Is(err, model.ErrRecordNotFound) {
			common.RespErrorKind(c, common.KindNotFound, "user_not_found")
			return
		}
		common.RespError(c, err)
		return
	}
	common.RespSuccess(c, user)
}
