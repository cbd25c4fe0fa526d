package model

import (
	"strconv"

	"github.com/zaunist/filebox/backend/common"

	"github.com/burugo/thing"
)

// OptionMap stores system options, accessible via common.OptionMapRWMutex
var OptionMap = common.OptionMap

type Option struct {
	thing.BaseModel
	Key   string `json:"key" db:"key,unique"`
	Value string `json:"value"`
}

// UpdateOptionMap updates the central OptionMap with a new option value
func UpdateOptionMap(key string, value string) {
	common.OptionMapRWMutex.Lock()
	defer common.OptionMapRWMutex.Unlock()
	OptionMap[key] = value
}

var OptionDB *thing.Thing[*Option]

// OptionInit 用于在 InitDB 时初始化 OptionDB
func OptionInit() error {
	var err error
	OptionDB, err = thing.Use[*Option]()
	if err != nil {
		return err
	}
	return nil
}

// InitOptionMap seeds the option map from the compiled defaults, then
// overrides from the options table.
func InitOptionMap() error {
	common.OptionMapRWMutex.Lock()
	if common.OptionMap == nil {
		common.OptionMap = map[string]string{}
	}
	common.OptionMap["ServerAddress"] = common.ServerAddress
	common.OptionMap["RegisterEnabled"] = strconv.FormatBool(common.RegisterEnabled)
	common.OptionMap["DefaultShareExpiryHours"] = strconv.Itoa(common.DefaultShareExpiryHours)
	common.OptionMap["AnonymousShareExpiryHours"] = strconv.Itoa(common.AnonymousShareExpiryHours)
	common.OptionMap["DefaultDownloadLimit"] = strconv.Itoa(common.DefaultDownloadLimit)
	common.OptionMap["MaxFileSize"] = strconv.FormatInt(common.MaxFileSize, 10)
	common.OptionMap["MaxAnonymousFileSize"] = strconv.FormatInt(common.MaxAnonymousFileSize, 10)
	common.OptionMap["EnableGzip"] = strconv.FormatBool(*common.EnableGzip)
	common.OptionMapRWMutex.Unlock()

	return initOptionMapFromDB()
}

// initOptionMapFromDB loads all options from the database into OptionMap
func initOptionMapFromDB() error {
	if OptionDB == nil {
		return nil // OptionDB not initialized
	}
	options, err := OptionDB.All()
	if err != nil {
		return err
	}
	for _, opt := range options {
		UpdateOptionMap(opt.Key, opt.Value)
	}
	return nil
}
