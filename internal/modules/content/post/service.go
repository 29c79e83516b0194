package post

import (
	"errors"
	"strings"
	"time"

	"github.com/quillspace/core/internal/models"
	"github.com/quillspace/core/internal/pkg/pagination"
	"github.com/quillspace/core/internal/pkg/response"
	"gorm.io/gorm"
)

var (
	errCategoryNotFound = errors.New("category not found")
	errLocationNotFound = errors.New("location not found")
)

// Service handles post business logic.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ListIndex returns the public front-page listing: visibility-filtered,
// comment-annotated, newest-first.
func (s *Service) ListIndex(q pagination.Query) ([]models.PostModel, response.Pagination, error) {
	// Applied eagerly, not via Scopes: the pagination Count must see the
	// annotated select up front to swap in count(*).
	tx := AnnotateAndOrder(FilterPublished(time.Now())(s.db.Model(&models.PostModel{})))

	var posts []models.PostModel
	pag, err := pagination.Paginate(tx, q, &posts)
	return posts, pag, err
}

// ListByAuthor returns the profile listing for a username along with the
// profile user. The listing is annotated and ordered but NOT visibility
// filtered; a profile page shows all of that user's posts. Returns a nil
// user when the username is unknown.
func (s *Service) ListByAuthor(username string, q pagination.Query) (*models.UserModel, []models.PostModel, response.Pagination, error) {
	var u models.UserModel
	if err := s.db.First(&u, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, response.Pagination{}, nil
		}
		return nil, nil, response.Pagination{}, err
	}

	tx := AnnotateAndOrder(s.db.Model(&models.PostModel{}).
		Where("posts.author_id = ?", u.ID)).
		Preload("Author").
		Preload("Category").
		Preload("Location")

	var posts []models.PostModel
	pag, err := pagination.Paginate(tx, q, &posts)
	return &u, posts, pag, err
}

// ListByCategory returns the listing for a published category slug along
// with the category itself. Returns a nil category when the slug is unknown
// or the category is unpublished; both are a 404 to the caller.
func (s *Service) ListByCategory(slug string, q pagination.Query) (*models.CategoryModel, []models.PostModel, response.Pagination, error) {
	var cat models.CategoryModel
	if err := s.db.First(&cat, "slug = ? AND is_published = ?", slug, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, response.Pagination{}, nil
		}
		return nil, nil, response.Pagination{}, err
	}

	tx := AnnotateAndOrder(s.db.Model(&models.PostModel{}).
		Where("posts.category_id = ?", cat.ID).
		Where("posts.is_published = ?", true).
		Where("posts.pub_date <= ?", time.Now())).
		Preload("Author").
		Preload("Category").
		Preload("Location")

	var posts []models.PostModel
	pag, err := pagination.Paginate(tx, q, &posts)
	return &cat, posts, pag, err
}

// GetByID fetches a post with its relations, no visibility check.
func (s *Service) GetByID(id string) (*models.PostModel, error) {
	var p models.PostModel
	err := s.db.
		Preload("Author").
		Preload("Category").
		Preload("Location").
		First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// GetDetail fetches a post for the detail page, including its chronological
// comment thread. A post that is not publicly visible is returned only to
// its author; for anyone else the result is nil, indistinguishable from a
// missing post.
func (s *Service) GetDetail(id, viewerID string) (*models.PostModel, error) {
	var p models.PostModel
	err := s.db.
		Preload("Author").
		Preload("Category").
		Preload("Location").
		Preload("Comments", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("comments.created_at ASC").Preload("Author")
		}).
		First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if !p.VisibleTo(viewerID, time.Now()) {
		return nil, nil
	}

	p.CommentCount = int64(len(p.Comments))
	return &p, nil
}

// Create inserts a new post owned by authorID. A missing pub_date publishes
// immediately; the publish flag defaults to true.
func (s *Service) Create(dto *CreatePostDTO, authorID string) (*models.PostModel, error) {
	categoryID, err := s.resolveCategoryID(dto.CategoryID)
	if err != nil {
		return nil, err
	}
	locationID, err := s.resolveLocationID(dto.LocationID)
	if err != nil {
		return nil, err
	}

	p := models.PostModel{
		Title:      dto.Title,
		Text:       dto.Text,
		AuthorID:   authorID,
		CategoryID: categoryID,
		LocationID: locationID,
	}
	p.IsPublished = true
	if dto.IsPublished != nil {
		p.IsPublished = *dto.IsPublished
	}
	if dto.PubDate != nil {
		p.PubDate = *dto.PubDate
	} else {
		p.PubDate = time.Now()
	}

	if err := s.db.Create(&p).Error; err != nil {
		return nil, err
	}
	return s.GetByID(p.ID)
}

// Update patches a post by ID. Empty-string category/location ids clear the
// reference.
func (s *Service) Update(id string, dto *UpdatePostDTO) (*models.PostModel, error) {
	p, err := s.GetByID(id)
	if err != nil || p == nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if dto.Title != nil {
		updates["title"] = *dto.Title
	}
	if dto.Text != nil {
		updates["text"] = *dto.Text
	}
	if dto.PubDate != nil {
		updates["pub_date"] = *dto.PubDate
	}
	if dto.IsPublished != nil {
		updates["is_published"] = *dto.IsPublished
	}
	if dto.CategoryID != nil {
		categoryID, err := s.resolveCategoryID(dto.CategoryID)
		if err != nil {
			return nil, err
		}
		updates["category_id"] = categoryID
	}
	if dto.LocationID != nil {
		locationID, err := s.resolveLocationID(dto.LocationID)
		if err != nil {
			return nil, err
		}
		updates["location_id"] = locationID
	}

	if len(updates) > 0 {
		// Update by key rather than through p: with its associations
		// preloaded, GORM's association save would write the stale FK
		// values back over the map's.
		if err := s.db.Model(&models.PostModel{}).Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetByID(id)
}

// SetImage records the stored filename of the post's uploaded image.
func (s *Service) SetImage(id, filename string) error {
	return s.db.Model(&models.PostModel{}).Where("id = ?", id).
		Update("image", filename).Error
}

// Delete permanently removes a post and its comments.
func (s *Service) Delete(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.CommentModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.PostModel{}, "id = ?", id).Error
	})
}

// UsernameOf resolves a user id to its username for redirect targets.
func (s *Service) UsernameOf(userID string) (string, error) {
	var u models.UserModel
	if err := s.db.Select("username").First(&u, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errors.New("user not found")
		}
		return "", err
	}
	return u.Username, nil
}

// resolveCategoryID validates an optional category reference. An empty
// string clears it.
func (s *Service) resolveCategoryID(raw *string) (*string, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	var count int64
	if err := s.db.Model(&models.CategoryModel{}).Where("id = ?", *raw).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errCategoryNotFound
	}
	id := *raw
	return &id, nil
}

func (s *Service) resolveLocationID(raw *string) (*string, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	var count int64
	if err := s.db.Model(&models.LocationModel{}).Where("id = ?", *raw).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errLocationNotFound
	}
	id := *raw
	return &id, nil
}
