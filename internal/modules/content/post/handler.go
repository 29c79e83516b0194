package post

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quillspace/core/internal/middleware"
	"github.com/quillspace/core/internal/models"
	"github.com/quillspace/core/internal/modules/storage/file"
	"github.com/quillspace/core/internal/pkg/pagination"
	"github.com/quillspace/core/internal/pkg/response"
)

// Handler serves the public listings and the post CRUD pages.
type Handler struct {
	svc   *Service
	files *file.Service
}

func NewHandler(svc *Service, files *file.Service) *Handler {
	return &Handler{svc: svc, files: files}
}

// RequireLogin runs before create/edit/delete; authorGuard additionally
// protects edit/delete against non-authors.
func (h *Handler) RegisterRoutes(r *gin.Engine, requireLogin, authorGuard gin.HandlerFunc) {
	r.GET("/", h.index)
	r.GET("/category/:category_slug/", h.byCategory)
	r.GET("/profile/:username/", h.byProfile)

	posts := r.Group("/posts")

	create := posts.Group("/create", requireLogin)
	create.GET("/", h.createForm)
	create.POST("/", h.create)

	posts.GET("/:post_id/", h.detail)

	edit := posts.Group("/:post_id/edit", requireLogin, authorGuard)
	edit.GET("/", h.editForm)
	edit.POST("/", h.update)

	del := posts.Group("/:post_id/delete", requireLogin, authorGuard)
	del.GET("/", h.deleteConfirm)
	del.POST("/", h.delete)
}

// index GET /
func (h *Handler) index(c *gin.Context) {
	q := pagination.FromContext(c)

	posts, pag, err := h.svc.ListIndex(q)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, toResponses(posts), pag)
}

// byCategory GET /category/:category_slug/
func (h *Handler) byCategory(c *gin.Context) {
	q := pagination.FromContext(c)

	cat, posts, pag, err := h.svc.ListByCategory(c.Param("category_slug"), q)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if cat == nil {
		response.NotFound(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"category": gin.H{
			"id":          cat.ID,
			"title":       cat.Title,
			"description": cat.Description,
			"slug":        cat.Slug,
		},
		"data":       toResponses(posts),
		"pagination": pag,
	})
}

// byProfile GET /profile/:username/
// Shows every post of the named user, published or not; "editable" tells the
// template whether the viewer is looking at their own page.
func (h *Handler) byProfile(c *gin.Context) {
	q := pagination.FromContext(c)

	profile, posts, pag, err := h.svc.ListByAuthor(c.Param("username"), q)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if profile == nil {
		response.NotFound(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"profile":    toAuthorResponse(profile),
		"editable":   middleware.CurrentUserID(c) == profile.ID,
		"data":       toResponses(posts),
		"pagination": pag,
	})
}

// detail GET /posts/:post_id/
func (h *Handler) detail(c *gin.Context) {
	p, err := h.svc.GetDetail(c.Param("post_id"), middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if p == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, toDetailResponse(p))
}

// createForm GET /posts/create/  [auth]
func (h *Handler) createForm(c *gin.Context) {
	response.OK(c, gin.H{"form": CreatePostDTO{}})
}

// create POST /posts/create/  [auth]
func (h *Handler) create(c *gin.Context) {
	var dto CreatePostDTO
	if err := c.ShouldBind(&dto); err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}

	userID := middleware.CurrentUserID(c)
	p, err := h.svc.Create(&dto, userID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if err := h.attachImage(c, p); err != nil {
		response.InternalError(c, err)
		return
	}

	username, err := h.svc.UsernameOf(userID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Redirect(c, "/profile/"+username+"/")
}

// editForm GET /posts/:post_id/edit/  [auth+author]
func (h *Handler) editForm(c *gin.Context) {
	p, err := h.svc.GetByID(c.Param("post_id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if p == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, gin.H{"form": toResponse(p)})
}

// update POST /posts/:post_id/edit/  [auth+author]
func (h *Handler) update(c *gin.Context) {
	var dto UpdatePostDTO
	if err := c.ShouldBind(&dto); err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}

	postID := c.Param("post_id")
	p, err := h.svc.Update(postID, &dto)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	if p == nil {
		response.NotFound(c)
		return
	}

	if err := h.attachImage(c, p); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Redirect(c, middleware.PostDetailPath(postID))
}

// deleteConfirm GET /posts/:post_id/delete/  [auth+author]
func (h *Handler) deleteConfirm(c *gin.Context) {
	p, err := h.svc.GetByID(c.Param("post_id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if p == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, gin.H{"form": toResponse(p)})
}

// delete POST /posts/:post_id/delete/  [auth+author]
func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("post_id")); err != nil {
		response.InternalError(c, err)
		return
	}
	username, err := h.svc.UsernameOf(middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Redirect(c, "/profile/"+username+"/")
}

// attachImage stores an optional multipart "image" part for the post.
func (h *Handler) attachImage(c *gin.Context, p *models.PostModel) error {
	if h.files == nil {
		return nil
	}
	fh, err := c.FormFile("image")
	if err != nil {
		// No file part; nothing to do.
		return nil
	}
	name, err := h.files.Save(fh)
	if err != nil {
		return err
	}
	return h.svc.SetImage(p.ID, name)
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	if errors.Is(err, errCategoryNotFound) || errors.Is(err, errLocationNotFound) {
		response.BadRequest(c, err.Error())
		return
	}
	response.InternalError(c, err)
}

func toResponses(posts []models.PostModel) []postResponse {
	items := make([]postResponse, len(posts))
	for i := range posts {
		items[i] = toResponse(&posts[i])
	}
	return items
}
