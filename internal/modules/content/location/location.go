// Package location manages the places posts can be tagged with. Locations
// are created through the administrative channel only; the public view layer
// just renders them on posts.
package location

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/quillspace/core/internal/models"
	"github.com/quillspace/core/internal/pkg/response"
	"gorm.io/gorm"
)

type CreateLocationDTO struct {
	Name        string `json:"name" form:"name" binding:"required"`
	IsPublished *bool  `json:"is_published" form:"is_published"`
}

type UpdateLocationDTO struct {
	Name        *string `json:"name" form:"name"`
	IsPublished *bool   `json:"is_published" form:"is_published"`
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// List returns all locations ordered by name.
func (s *Service) List() ([]models.LocationModel, error) {
	var locs []models.LocationModel
	return locs, s.db.Order("name ASC").Find(&locs).Error
}

func (s *Service) GetByID(id string) (*models.LocationModel, error) {
	var loc models.LocationModel
	if err := s.db.First(&loc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &loc, nil
}

func (s *Service) Create(dto *CreateLocationDTO) (*models.LocationModel, error) {
	loc := models.LocationModel{Name: dto.Name}
	loc.IsPublished = true
	if dto.IsPublished != nil {
		loc.IsPublished = *dto.IsPublished
	}
	return &loc, s.db.Create(&loc).Error
}

func (s *Service) Update(id string, dto *UpdateLocationDTO) (*models.LocationModel, error) {
	loc, err := s.GetByID(id)
	if err != nil || loc == nil {
		return loc, err
	}
	updates := map[string]interface{}{}
	if dto.Name != nil {
		updates["name"] = *dto.Name
	}
	if dto.IsPublished != nil {
		updates["is_published"] = *dto.IsPublished
	}
	return loc, s.db.Model(loc).Updates(updates).Error
}

// Delete removes a location, clearing the reference on posts that used it.
func (s *Service) Delete(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PostModel{}).Where("location_id = ?", id).
			Update("location_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.LocationModel{}, "id = ?", id).Error
	})
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	locs := admin.Group("/locations")
	locs.GET("/", h.list)
	locs.POST("/", h.create)
	locs.POST("/:id/edit/", h.update)
	locs.POST("/:id/delete/", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	locs, err := h.svc.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"data": locs})
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateLocationDTO
	if err := c.ShouldBind(&dto); err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}
	loc, err := h.svc.Create(&dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, loc)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateLocationDTO
	if err := c.ShouldBind(&dto); err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}
	loc, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if loc == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, loc)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
