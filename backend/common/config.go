package common

import (
	"strconv"
)

// Option accessors. All read OptionMap under the read lock so admin updates
// take effect without a restart.

func getOptionInt(key string, fallback int) int {
	OptionMapRWMutex.RLock()
	raw := OptionMap[key]
	OptionMapRWMutex.RUnlock()
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func getOptionInt64(key string, fallback int64) int64 {
	OptionMapRWMutex.RLock()
	raw := OptionMap[key]
	OptionMapRWMutex.RUnlock()
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return v
}

// GetRegisterEnabled gets whether registration is enabled
func GetRegisterEnabled() bool {
	OptionMapRWMutex.RLock()
	defer OptionMapRWMutex.RUnlock()
	return OptionMap["RegisterEnabled"] != "false"
}

// GetServerAddress gets server address
func GetServerAddress() string {
	OptionMapRWMutex.RLock()
	defer OptionMapRWMutex.RUnlock()
	return OptionMap["ServerAddress"]
}

// GetDefaultShareExpiryHours is the expiry applied to authenticated shares
// created without an explicit expires_in.
func GetDefaultShareExpiryHours() int {
	return getOptionInt("DefaultShareExpiryHours", DefaultShareExpiryHours)
}

// GetAnonymousShareExpiryHours is the expiry applied to anonymous-upload
// shares created without an explicit expires_in.
func GetAnonymousShareExpiryHours() int {
	return getOptionInt("AnonymousShareExpiryHours", AnonymousShareExpiryHours)
}

// GetDefaultDownloadLimit is the download limit applied when none is
// requested. 0 means unlimited.
func GetDefaultDownloadLimit() int {
	return getOptionInt("DefaultDownloadLimit", DefaultDownloadLimit)
}

func GetMaxFileSize() int64 {
	return getOptionInt64("MaxFileSize", MaxFileSize)
}

func GetMaxAnonymousFileSize() int64 {
	return getOptionInt64("MaxAnonymousFileSize", MaxAnonymousFileSize)
}

// GetEnableGzip checks if gzip compression should be enabled.
// Defaults to true if the option is not explicitly set to "false".
func GetEnableGzip() bool {
	OptionMapRWMutex.RLock()
	defer OptionMapRWMutex.RUnlock()
	// We treat any value other than "false" as true for safety.
	return OptionMap["EnableGzip"] != "false"
}
