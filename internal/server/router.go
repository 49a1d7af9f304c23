package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"microblog-lite/internal/auth"
	"microblog-lite/internal/handler"
	"microblog-lite/internal/middleware"
	"microblog-lite/internal/store"
)

type Deps struct {
	Store       *store.Store
	TokenConfig auth.TokenConfig
}

func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	credentialLimiter := middleware.NewRateLimiter(10, time.Minute)
	authHandler := &handler.AuthHandler{Store: deps.Store, TokenConfig: deps.TokenConfig}

	authGroup := r.Group("/auth")
	authGroup.POST("/register", middleware.RateLimit(credentialLimiter), authHandler.Register)
	authGroup.POST("/login", middleware.RateLimit(credentialLimiter), authHandler.Login)
	authGroup.POST("/logout", middleware.RequireAuth(deps.TokenConfig), authHandler.Logout)

	postHandler := &handler.PostHandler{Store: deps.Store}

	app := r.Group("/app")
	app.Use(middleware.RequireAuth(deps.TokenConfig))
	app.GET("/article", postHandler.List)
	app.POST("/save", postHandler.Save)
	app.POST("/update", postHandler.Update)
	app.POST("/delete", postHandler.Delete)
	app.GET("/getUser", postHandler.GetUser)

	return r
}
