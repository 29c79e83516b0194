package models

// CommentModel is a reader comment on a post. Post and author are fixed at
// creation; deleting either one deletes the comment.
type CommentModel struct {
	Base
	Text     string     `json:"text"      gorm:"type:text;not null"`
	PostID   string     `json:"post_id"   gorm:"type:char(36);index;not null"`
	Post     *PostModel `json:"-"         gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	AuthorID string     `json:"author_id" gorm:"type:char(36);index;not null"`
	Author   *UserModel `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}

func (CommentModel) TableName() string { return "comments" }
