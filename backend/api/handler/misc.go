package handler

import (
	"net/http"

	"github.com/zaunist/filebox/backend/common"

	"github.com/gin-gonic/gin"
)

// GetStatus reports version and startup info for the frontend shell.
func GetStatus(c *gin.Context) {
	common.RespSuccess(c, gin.H{
		"system_name": common.SystemName,
		"version":     common.Version,
		"start_time":  common.StartTime,
	})
}

// Health is the load-balancer probe. No envelope, no auth, no rate limit.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
