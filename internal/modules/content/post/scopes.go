package post

import (
	"time"

	"gorm.io/gorm"
)

// FilterPublished keeps only posts visible to anonymous readers: published,
// not future-dated, and either uncategorized or in a published category.
func FilterPublished(now time.Time) func(tx *gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.
			Joins("LEFT JOIN categories ON categories.id = posts.category_id").
			Where("posts.is_published = ?", true).
			Where("posts.pub_date <= ?", now).
			Where("posts.category_id IS NULL OR categories.is_published = ?", true).
			Preload("Author").Preload("Category").Preload("Location")
	}
}

// AnnotateAndOrder attaches the comment count to each row and orders the
// result newest first.
func AnnotateAndOrder(tx *gorm.DB) *gorm.DB {
	return tx.
		Select("posts.*, (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count").
		Order("posts.pub_date DESC")
}
