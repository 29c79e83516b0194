package models

import "time"

// PostModel is a blog post. PubDate may be in the future for scheduled
// publication; such posts stay invisible to everyone but their author until
// the date passes.
type PostModel struct {
	PublishBase
	Title      string         `json:"title"    gorm:"not null"`
	Text       string         `json:"text"     gorm:"type:longtext"`
	PubDate    time.Time      `json:"pub_date" gorm:"index;not null"`
	AuthorID   string         `json:"author_id" gorm:"type:char(36);index;not null"`
	Author     *UserModel     `json:"author,omitempty"   gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	CategoryID *string        `json:"category_id" gorm:"type:char(36);index"`
	Category   *CategoryModel `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	LocationID *string        `json:"location_id" gorm:"type:char(36);index"`
	Location   *LocationModel `json:"location,omitempty" gorm:"foreignKey:LocationID;constraint:OnDelete:SET NULL"`
	Image      string         `json:"image"`

	// CommentCount is filled by the annotation scope, never migrated or written.
	CommentCount int64 `json:"comment_count" gorm:"->;-:migration"`

	Comments []CommentModel `json:"comments,omitempty" gorm:"foreignKey:PostID"`
}

func (PostModel) TableName() string { return "posts" }

// VisibleTo reports whether the post may be shown to the given viewer.
// Authors always see their own posts; everyone else needs the post published,
// its category (if any) published, and the publication date reached.
func (p *PostModel) VisibleTo(viewerID string, now time.Time) bool {
	if viewerID != "" && viewerID == p.AuthorID {
		return true
	}
	if !p.IsPublished || p.PubDate.After(now) {
		return false
	}
	if p.Category != nil && !p.Category.IsPublished {
		return false
	}
	return true
}
