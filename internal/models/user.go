package models

import "time"

// UserModel is an authenticated account. Any registered user can publish
// posts and comment on visible posts.
type UserModel struct {
	Base
	Username  string `json:"username" gorm:"uniqueIndex;not null"`
	Name      string `json:"name"`
	Mail      string `json:"mail"`
	Avatar    string `json:"avatar"`
	Introduce string `json:"introduce"`
	Password  string `json:"-"        gorm:"not null"`

	Posts    []PostModel    `json:"-" gorm:"foreignKey:AuthorID"`
	Comments []CommentModel `json:"-" gorm:"foreignKey:AuthorID"`
}

func (UserModel) TableName() string { return "users" }

// UserSession tracks signed-in JWT sessions so that logout revokes tokens
// server-side.
type UserSession struct {
	Base
	UserID    string     `json:"user_id"    gorm:"type:char(36);index;not null"`
	IP        string     `json:"ip"`
	UA        string     `json:"ua"         gorm:"type:text"`
	ExpiresAt time.Time  `json:"expires_at" gorm:"index;not null"`
	RevokedAt *time.Time `json:"revoked_at" gorm:"index"`
}

func (UserSession) TableName() string { return "user_sessions" }
