package category

import (
	"errors"
	"fmt"
	"regexp"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/quillspace/core/internal/models"
	"gorm.io/gorm"
)

// Slugs are URL path segments: latin letters, digits, hyphen, underscore.
var slugPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

var (
	errSlugTaken   = errors.New("slug already exists")
	errSlugInvalid = errors.New("invalid slug")
)

type CreateCategoryDTO struct {
	Title       string `json:"title" form:"title" binding:"required"`
	Description string `json:"description" form:"description"`
	Slug        string `json:"slug"  form:"slug"  binding:"required"`
	IsPublished *bool  `json:"is_published" form:"is_published"`
}

type UpdateCategoryDTO struct {
	Title       *string `json:"title" form:"title"`
	Description *string `json:"description" form:"description"`
	Slug        *string `json:"slug"  form:"slug"`
	IsPublished *bool   `json:"is_published" form:"is_published"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// List returns all categories ordered by title, unpublished included: this
// is the administrative view.
func (s *Service) List() ([]models.CategoryModel, error) {
	var cats []models.CategoryModel
	return cats, s.db.Order("title ASC").Find(&cats).Error
}

func (s *Service) GetByID(id string) (*models.CategoryModel, error) {
	var cat models.CategoryModel
	if err := s.db.First(&cat, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (s *Service) Create(dto *CreateCategoryDTO) (*models.CategoryModel, error) {
	if !slugPattern.MatchString(dto.Slug) {
		return nil, fmt.Errorf("%w: %q", errSlugInvalid, dto.Slug)
	}
	var count int64
	s.db.Model(&models.CategoryModel{}).Where("slug = ?", dto.Slug).Count(&count)
	if count > 0 {
		return nil, errSlugTaken
	}

	cat := models.CategoryModel{
		Title:       dto.Title,
		Description: dto.Description,
		Slug:        dto.Slug,
	}
	cat.IsPublished = true
	if dto.IsPublished != nil {
		cat.IsPublished = *dto.IsPublished
	}
	if err := s.db.Create(&cat).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, errSlugTaken
		}
		return nil, err
	}
	return &cat, nil
}

func isDuplicateKey(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func (s *Service) Update(id string, dto *UpdateCategoryDTO) (*models.CategoryModel, error) {
	cat, err := s.GetByID(id)
	if err != nil || cat == nil {
		return cat, err
	}

	updates := map[string]interface{}{}
	if dto.Title != nil {
		updates["title"] = *dto.Title
	}
	if dto.Description != nil {
		updates["description"] = *dto.Description
	}
	if dto.Slug != nil {
		if !slugPattern.MatchString(*dto.Slug) {
			return nil, fmt.Errorf("%w: %q", errSlugInvalid, *dto.Slug)
		}
		updates["slug"] = *dto.Slug
	}
	if dto.IsPublished != nil {
		updates["is_published"] = *dto.IsPublished
	}
	return cat, s.db.Model(cat).Updates(updates).Error
}

// Delete removes a category; posts that referenced it keep existing with the
// reference cleared (nullify-on-delete).
func (s *Service) Delete(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PostModel{}).Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.CategoryModel{}, "id = ?", id).Error
	})
}
