package handler

import (
	"github.com/zaunist/filebox/backend/common"
	"github.com/zaunist/filebox/backend/model"
	"github.com/zaunist/filebox/backend/service"

	"github.com/gin-gonic/gin"
)

// GetStats returns system-wide counters. Admin only.
func GetStats(c *gin.Context) {
	stats, err := model.GetSystemStats()
	if err != nil {
		common.RespError(c, err)
		return
	}
	common.RespSuccess(c, stats)
}

// GetOptions returns all options. Admin only.
func GetOptions(c *gin.Context) {
	options, err := service.AllOption()
	if err != nil {
		common.RespError(c, err)
		return
	}
	common.RespSuccess(c, options)
}

// UpdateOptionRequest represents the request body for updating an option
type UpdateOptionRequest struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value"`
}

// UpdateOption updates an option. Admin only.
func UpdateOption(c *gin.Context) {
	var req UpdateOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespInvalidInput(c, err)
		return
	}
	if err := service.UpdateOption(req.Key, req.Value); err != nil {
		common.RespError(c, err)
		return
	}
	common.RespSuccessStr(c, "option updated")
}
