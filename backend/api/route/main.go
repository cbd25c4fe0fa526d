package route

import (
	"embed"

	"github.com/zaunist/filebox/backend/api/middleware"
	"github.com/zaunist/filebox/backend/common"

	"github.com/gin-gonic/gin"
)

func SetRouter(route *gin.Engine, buildFS embed.FS, indexPage []byte) {
	route.Use(middleware.CORS())

	if common.GetEnableGzip() {
		route.Use(middleware.GzipDecodeMiddleware())
		route.Use(middleware.GzipEncodeMiddleware())
	}

	SetApiRouter(route)
	setWebRouter(route, buildFS, indexPage)
}
