package comment

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/quillspace/core/internal/middleware"
	"github.com/quillspace/core/internal/models"
	"github.com/quillspace/core/internal/pkg/response"
)

// Handler serves the comment operations nested under a post.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// All comment routes require login; edit/delete additionally run the
// comment-author guard.
func (h *Handler) RegisterRoutes(r *gin.Engine, requireLogin, authorGuard gin.HandlerFunc) {
	posts := r.Group("/posts/:post_id", requireLogin)

	posts.POST("/comment/", h.create)

	edit := posts.Group("/edit_comment/:comment_id", authorGuard)
	edit.GET("/", h.editForm)
	edit.POST("/", h.update)

	del := posts.Group("/delete_comment/:comment_id", authorGuard)
	del.GET("/", h.deleteConfirm)
	del.POST("/", h.delete)
}

// create POST /posts/:post_id/comment/  [auth]
func (h *Handler) create(c *gin.Context) {
	var dto CommentDTO
	if err := c.ShouldBind(&dto); err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}

	postID := c.Param("post_id")
	_, err := h.svc.Create(postID, middleware.CurrentUserID(c), dto.Text)
	if err != nil {
		if errors.Is(err, errPostNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Redirect(c, middleware.PostDetailPath(postID))
}

// editForm GET /posts/:post_id/edit_comment/:comment_id/  [auth+author]
func (h *Handler) editForm(c *gin.Context) {
	cm, err := h.svc.GetByID(c.Param("comment_id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if cm == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, gin.H{"form": CommentDTO{Text: cm.Text}, "comment": toResponse(cm)})
}

// update POST /posts/:post_id/edit_comment/:comment_id/  [auth+author]
func (h *Handler) update(c *gin.Context) {
	var dto CommentDTO
	if err := c.ShouldBind(&dto); err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}

	cm, err := h.svc.Update(c.Param("comment_id"), dto.Text)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if cm == nil {
		response.NotFound(c)
		return
	}
	response.Redirect(c, middleware.PostDetailPath(c.Param("post_id")))
}

// deleteConfirm GET /posts/:post_id/delete_comment/:comment_id/  [auth+author]
func (h *Handler) deleteConfirm(c *gin.Context) {
	cm, err := h.svc.GetByID(c.Param("comment_id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if cm == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, gin.H{"comment": toResponse(cm)})
}

// delete POST /posts/:post_id/delete_comment/:comment_id/  [auth+author]
func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("comment_id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Redirect(c, middleware.PostDetailPath(c.Param("post_id")))
}

func toResponse(cm *models.CommentModel) commentResponse {
	resp := commentResponse{
		ID:      cm.ID,
		Text:    cm.Text,
		PostID:  cm.PostID,
		Created: cm.CreatedAt,
	}
	if cm.Author != nil {
		resp.Author = &commentAuthor{
			ID:       cm.Author.ID,
			Username: cm.Author.Username,
			Name:     cm.Author.Name,
			Avatar:   cm.Author.Avatar,
		}
	}
	return resp
}
