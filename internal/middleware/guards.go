package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/quillspace/core/internal/models"
	"github.com/quillspace/core/internal/pkg/response"
	"gorm.io/gorm"
)

// PostDetailPath builds the canonical detail URL for a post, the safe
// fallback target of both author guards.
func PostDetailPath(postID string) string {
	return "/posts/" + postID + "/"
}

// PostAuthor guards post mutations: it loads the post named by :post_id and,
// when the requester is not its author, silently redirects to the post's
// detail page instead of failing. Runs after RequireLogin.
func PostAuthor(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		postID := c.Param("post_id")

		var post models.PostModel
		err := db.Select("id", "author_id").First(&post, "id = ?", postID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				response.NotFound(c)
				return
			}
			response.InternalError(c, err)
			return
		}

		if post.AuthorID != CurrentUserID(c) {
			response.Redirect(c, PostDetailPath(postID))
			return
		}
		c.Next()
	}
}

// CommentAuthor guards comment mutations the same way: a non-author is
// redirected to the parent post's detail page, taken from the URL.
func CommentAuthor(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		commentID := c.Param("comment_id")

		var comment models.CommentModel
		err := db.Select("id", "author_id").First(&comment, "id = ?", commentID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				response.NotFound(c)
				return
			}
			response.InternalError(c, err)
			return
		}

		if comment.AuthorID != CurrentUserID(c) {
			response.Redirect(c, PostDetailPath(c.Param("post_id")))
			return
		}
		c.Next()
	}
}
