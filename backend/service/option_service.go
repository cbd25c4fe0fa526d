package service

import (
	"strconv"

	"github.com/zaunist/filebox/backend/common"
	"github.com/zaunist/filebox/backend/model"
)

// AllOption returns all options
func AllOption() ([]*model.Option, error) {
	return model.OptionDB.All()
}

// options whose values must parse as non-negative integers
var intOptionKeys = map[string]bool{
	"DefaultShareExpiryHours":   true,
	"AnonymousShareExpiryHours": true,
	"DefaultDownloadLimit":      true,
	"MaxFileSize":               true,
	"MaxAnonymousFileSize":      true,
}

// UpdateOption updates an option in the database and in memory
func UpdateOption(key string, value string) error {
	if intOptionKeys[key] {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n < 0 {
			return common.NewError(common.KindInvalidInput, "invalid_request")
		}
	}
	options, err := model.OptionDB.Where("key = ?", key).Fetch(0, 1)
	var option *model.Option
	if err != nil {
		return err
	}
	if len(options) == 0 {
		option = &model.Option{Key: key, Value: value}
	} else {
		option = options[0]
		option.Value = value
	}
	err = model.OptionDB.Save(option)
	if err != nil {
		return err
	}
	model.UpdateOptionMap(key, value)
	return nil
}
