package comment

import (
	"errors"

	"github.com/quillspace/core/internal/models"
	"gorm.io/gorm"
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// GetByID fetches a comment with its author.
func (s *Service) GetByID(id string) (*models.CommentModel, error) {
	var cm models.CommentModel
	if err := s.db.Preload("Author").First(&cm, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cm, nil
}

// ListForPost returns a post's comments in chronological order.
func (s *Service) ListForPost(postID string) ([]models.CommentModel, error) {
	var comments []models.CommentModel
	err := s.db.Where("post_id = ?", postID).
		Order("created_at ASC").
		Preload("Author").
		Find(&comments).Error
	return comments, err
}

// Create attaches a new comment to the post, authored by authorID. Returns
// errPostNotFound when the post does not exist; the post's visibility is not
// re-checked here.
func (s *Service) Create(postID, authorID, text string) (*models.CommentModel, error) {
	var count int64
	if err := s.db.Model(&models.PostModel{}).Where("id = ?", postID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errPostNotFound
	}

	cm := models.CommentModel{
		Text:     text,
		PostID:   postID,
		AuthorID: authorID,
	}
	if err := s.db.Create(&cm).Error; err != nil {
		return nil, err
	}
	return &cm, nil
}

// Update changes a comment's text. Post and author are immutable.
func (s *Service) Update(id, text string) (*models.CommentModel, error) {
	cm, err := s.GetByID(id)
	if err != nil || cm == nil {
		return nil, err
	}
	if err := s.db.Model(cm).Update("text", text).Error; err != nil {
		return nil, err
	}
	return cm, nil
}

// Delete permanently removes a comment.
func (s *Service) Delete(id string) error {
	return s.db.Delete(&models.CommentModel{}, "id = ?", id).Error
}
