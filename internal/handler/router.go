package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/trailmark/internal/middleware"
	"github.com/xxxsen/trailmark/internal/pkg/jwt"
)

type RouterDeps struct {
	Auth        *AuthHandler
	Markers     *MarkerHandler
	Photos      *PhotoHandler
	Serials     *SerialHandler
	Files       *FileHandler
	Tokens      *jwt.Manager
	AuthLimiter time.Duration
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.Use(middleware.RequestID())

	authLimited := api.Group("/auth")
	authLimited.Use(middleware.RateLimit(deps.AuthLimiter))
	authLimited.POST("/register", deps.Auth.Register)
	authLimited.POST("/login", deps.Auth.Login)

	api.GET("/files/:key", deps.Files.Get)

	authGroup := api.Group("")
	authGroup.Use(middleware.JWTAuth(deps.Tokens))
	authGroup.GET("/markers", deps.Markers.List)
	authGroup.POST("/markers", deps.Markers.Create)
	authGroup.GET("/markers/tags", deps.Markers.Tags)
	authGroup.PUT("/markers/:id", deps.Markers.Update)
	authGroup.DELETE("/markers/:id", deps.Markers.Delete)

	authGroup.POST("/markers/:id/photos", deps.Photos.Upload)
	authGroup.GET("/markers/:id/photos", deps.Photos.List)
	authGroup.DELETE("/photos/:id", deps.Photos.Delete)

	authGroup.GET("/serials", deps.Serials.List)
	authGroup.POST("/serials", deps.Serials.Create)
	authGroup.GET("/serials/:id", deps.Serials.Get)
	authGroup.PUT("/serials/:id", deps.Serials.Update)
	authGroup.DELETE("/serials/:id", deps.Serials.Delete)
}
