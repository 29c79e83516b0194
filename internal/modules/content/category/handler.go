package category

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/quillspace/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the administrative category surface. The public
// reading path (/category/{slug}/) lives with the post listings.
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	cats := admin.Group("/categories")
	cats.GET("/", h.list)
	cats.POST("/", h.create)
	cats.POST("/:id/edit/", h.update)
	cats.POST("/:id/delete/", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	cats, err := h.svc.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"data": cats})
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateCategoryDTO
	if err := c.ShouldBind(&dto); err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}
	cat, err := h.svc.Create(&dto)
	if err != nil {
		if errors.Is(err, errSlugTaken) {
			response.Conflict(c, err.Error())
			return
		}
		if errors.Is(err, errSlugInvalid) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, cat)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateCategoryDTO
	if err := c.ShouldBind(&dto); err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}
	cat, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		if errors.Is(err, errSlugInvalid) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	if cat == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, cat)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
