package route

import (
	"github.com/zaunist/filebox/backend/api/handler"
	"github.com/zaunist/filebox/backend/api/middleware"

	"github.com/gin-gonic/gin"
)

func SetApiRouter(route *gin.Engine) {
	route.GET("/health", handler.Health)

	apiRouter := route.Group("/api")
	apiRouter.Use(middleware.LangMiddleware())
	apiRouter.Use(middleware.GlobalAPIRateLimit())
	{
		apiRouter.GET("/status", handler.GetStatus)

		// Authentication routes
		authRoutes := apiRouter.Group("/auth")
		{
			authRoutes.POST("/register", middleware.CriticalRateLimit(), handler.Register)
			authRoutes.POST("/login", middleware.CriticalRateLimit(), handler.Login)
			authRoutes.POST("/refresh", middleware.CriticalRateLimit(), handler.RefreshToken)
			// Logout takes its tokens from the body so a second call with an
			// already-revoked token still succeeds.
			authRoutes.POST("/logout", handler.Logout)
			authRoutes.GET("/me", middleware.JWTAuth(), handler.GetSelf)
			authRoutes.PUT("/password", middleware.JWTAuth(), handler.ChangePassword)
		}

		// File routes
		fileRoutes := apiRouter.Group("/files")
		{
			// Anonymous upload is the one unauthenticated write path.
			fileRoutes.POST("/anonymous", middleware.UploadRateLimit(), handler.UploadAnonymous)

			authed := fileRoutes.Group("/")
			authed.Use(middleware.JWTAuth())
			{
				authed.POST("/", middleware.UploadRateLimit(), handler.Upload)
				authed.GET("/", handler.GetFiles)
				authed.GET("/:id", handler.GetFile)
				authed.DELETE("/:id", handler.DeleteFile)
				authed.GET("/:id/download", middleware.DownloadRateLimit(), handler.DownloadFile)
				authed.POST("/:id/share", handler.CreateShare)
			}
		}

		// Share routes. Resolution and download by code are public: the code
		// itself is the credential.
		shareRoutes := apiRouter.Group("/shares")
		{
			shareRoutes.GET("/", middleware.JWTAuth(), handler.GetShares)
			shareRoutes.DELETE("/:id", middleware.JWTAuth(), handler.DeleteShare)
			shareRoutes.GET("/:code", handler.ResolveShare)
			shareRoutes.GET("/:code/download", middleware.DownloadRateLimit(), handler.DownloadShared)
		}

		// Admin routes
		adminRoutes := apiRouter.Group("/admin")
		adminRoutes.Use(middleware.JWTAuth())
		adminRoutes.Use(middleware.AdminAuth())
		{
			adminRoutes.GET("/stats", handler.GetStats)
			adminRoutes.GET("/options", handler.GetOptions)
			adminRoutes.PUT("/options", handler.UpdateOption)
		}
	}
}
