package comment

import (
	"errors"
	"time"
)

// CommentDTO is the create/edit form payload: the text is the only
// client-controlled field. Post and author are fixed from the URL and the
// session and never change afterwards.
type CommentDTO struct {
	Text string `json:"text" form:"text" binding:"required"`
}

type commentAuthor struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar,omitempty"`
}

type commentResponse struct {
	ID      string         `json:"id"`
	Text    string         `json:"text"`
	PostID  string         `json:"post_id"`
	Author  *commentAuthor `json:"author"`
	Created time.Time      `json:"created_at"`
}

var errPostNotFound = errors.New("post not found")
