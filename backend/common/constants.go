package common

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

var StartTime = time.Now().Unix() // unit: second
var Version = "v0.0.1"            // this hard coding will be replaced automatically when building, no need to manually change
var SystemName = "FileBox"
var ServerAddress = "http://localhost:3000"

var SQLitePath = "data/filebox.db"

// OptionMap holds runtime-tunable options. Seeded from the constants below,
// then overridden by rows in the options table. Guard with OptionMapRWMutex.
var OptionMap = make(map[string]string)

var OptionMapRWMutex sync.RWMutex

var ItemsPerPage = 10
var MaxItemsPerPage = 100

var RegisterEnabled = true

// Admin account seeded at startup when no root user exists yet.
var AdminEmail = "admin@example.com"
var AdminPassword = ""
var AdminUsername = "boxer"

// JWT constants
var JWTSecret = uuid.New().String()        // Secret for signing JWT access tokens
var JWTRefreshSecret = uuid.New().String() // Secret for signing refresh tokens
var JWTExpiryHours = 24                    // Access token expiry in hours
var JWTRefreshExpiryHours = 168            // Refresh token expiry in hours (7 days)

const (
	RoleGuestUser  = 0
	RoleCommonUser = 1
	RoleAdminUser  = 10
	RoleRootUser   = 100
)

const (
	UserStatusEnabled  = 1 // don't use 0, 0 is the default value!
	UserStatusDisabled = 2 // also don't use 0
)

// Share code policy. Generated codes are ShareCodeLength characters from
// ShareCodeAlphabet; caller-supplied codes may be 6-16 characters.
const (
	ShareCodeAlphabet        = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	ShareCodeLength          = 6
	ShareCodeMinLength       = 6
	ShareCodeMaxLength       = 16
	ShareCodeGenerateRetries = 5
)

// Share policy defaults. Runtime values live in OptionMap so admins can
// change them without a restart; these are the seeds.
var (
	DefaultShareExpiryHours   = 24
	AnonymousShareExpiryHours = 1
	DefaultDownloadLimit      = 0 // 0 means unlimited

	MaxFileSize          int64 = 100 * 1024 * 1024
	MaxAnonymousFileSize int64 = 50 * 1024 * 1024
)

// All duration's unit is seconds
// Shouldn't larger then RateLimitKeyExpirationDuration
var (
	GlobalApiRateLimitNum            = 100
	GlobalApiRateLimitDuration int64 = 60

	GlobalWebRateLimitNum            = 60
	GlobalWebRateLimitDuration int64 = 3 * 60

	UploadRateLimitNum            = 10
	UploadRateLimitDuration int64 = 60

	DownloadRateLimitNum            = 10
	DownloadRateLimitDuration int64 = 60

	CriticalRateLimitNum            = 20
	CriticalRateLimitDuration int64 = 20 * 60
)

var RateLimitKeyExpirationDuration = 20 * time.Minute
