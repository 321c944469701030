package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/itsVijayCoder/doc-chain-server/internal/middleware"
)

type RouterDeps struct {
	Auth      *AuthHandler
	Users     *UserHandler
	Documents *DocumentHandler
	Shares    *ShareHandler
	Links     *LinkHandler
	JWTSecret []byte
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/auth/register", deps.Auth.Register)
	api.POST("/auth/login", deps.Auth.Login)

	authGroup := api.Group("")
	authGroup.Use(middleware.JWTAuth(deps.JWTSecret))
	authGroup.GET("/auth/me", deps.Auth.Me)

	authGroup.GET("/users", deps.Users.Search)
	authGroup.GET("/share-options", deps.Users.ShareOptions)

	authGroup.POST("/documents", deps.Documents.Upload)
	authGroup.GET("/documents", deps.Documents.List)
	authGroup.GET("/documents/:id", deps.Documents.Get)
	authGroup.PUT("/documents/:id/star", deps.Documents.Star)
	authGroup.DELETE("/documents/:id", deps.Documents.Delete)
	authGroup.GET("/documents/:id/download", deps.Documents.Download)
	authGroup.GET("/shared", deps.Documents.SharedWithMe)

	authGroup.GET("/documents/:id/shares", deps.Shares.List)
	authGroup.POST("/documents/:id/shares", deps.Shares.Create)
	authGroup.POST("/documents/:id/shares/batch", deps.Shares.CreateBatch)
	authGroup.DELETE("/shares/:id", deps.Shares.Remove)

	authGroup.POST("/documents/:id/link", deps.Links.Generate)
	authGroup.GET("/documents/:id/link", deps.Links.GetActive)
	authGroup.DELETE("/links/:id", deps.Links.Revoke)

	// Public link resolution is unauthenticated and the obvious brute-force
	// target for password-protected links, hence the limiter.
	public := api.Group("/public")
	public.Use(middleware.RateLimit(time.Second))
	public.GET("/links/:token", deps.Links.PublicResolve)
	public.GET("/links/:token/download", deps.Links.PublicDownload)
}
