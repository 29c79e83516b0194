package app

import (
	"github.com/gin-gonic/gin"
	"github.com/quillspace/core/internal/middleware"
	"github.com/quillspace/core/internal/modules/auth/auth"
	"github.com/quillspace/core/internal/modules/auth/user"
	"github.com/quillspace/core/internal/modules/content/category"
	"github.com/quillspace/core/internal/modules/content/comment"
	"github.com/quillspace/core/internal/modules/content/location"
	"github.com/quillspace/core/internal/modules/content/post"
	"github.com/quillspace/core/internal/modules/storage/file"
	"github.com/quillspace/core/internal/modules/system/health"
	pkgredis "github.com/quillspace/core/internal/pkg/redis"
	"github.com/quillspace/core/internal/pkg/response"
)

func (a *App) registerRoutes(rc *pkgredis.Client) {
	r := a.router
	db := a.db

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	r.Use(middleware.OptionalAuth(db))
	if rc != nil {
		r.Use(middleware.RateLimit(rc.Raw()))
	}

	requireLogin := middleware.RequireLogin(db)
	postAuthor := middleware.PostAuthor(db)
	commentAuthor := middleware.CommentAuthor(db)

	health.RegisterRoutes(r, db)

	fileSvc := file.NewService(a.cfg.StaticDir)
	file.NewHandler(fileSvc).RegisterRoutes(r, requireLogin)

	auth.NewHandler(auth.NewService(db)).RegisterRoutes(r, requireLogin)
	user.NewHandler(user.NewService(db)).RegisterRoutes(r, requireLogin)

	post.NewHandler(post.NewService(db), fileSvc).RegisterRoutes(r, requireLogin, postAuthor)
	comment.NewHandler(comment.NewService(db)).RegisterRoutes(r, requireLogin, commentAuthor)

	admin := r.Group("/admin", requireLogin)
	category.NewHandler(category.NewService(db)).RegisterRoutes(admin)
	location.NewHandler(location.NewService(db)).RegisterRoutes(admin)
}
