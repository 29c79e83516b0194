package post

import (
	"time"

	"github.com/quillspace/core/internal/models"
	"github.com/quillspace/core/internal/pkg/markdown"
)

// CreatePostDTO is the post form payload. The author never comes from the
// client; it is forced to the requesting user. An image file may accompany
// the form as a multipart part named "image".
type CreatePostDTO struct {
	Title       string     `json:"title"    form:"title"    binding:"required"`
	Text        string     `json:"text"     form:"text"     binding:"required"`
	PubDate     *time.Time `json:"pub_date" form:"pub_date" time_format:"2006-01-02T15:04:05Z07:00"`
	CategoryID  *string    `json:"category_id" form:"category_id"`
	LocationID  *string    `json:"location_id" form:"location_id"`
	IsPublished *bool      `json:"is_published" form:"is_published"`
}

// UpdatePostDTO is the edit form payload; all fields optional.
type UpdatePostDTO struct {
	Title       *string    `json:"title"    form:"title"`
	Text        *string    `json:"text"     form:"text"`
	PubDate     *time.Time `json:"pub_date" form:"pub_date" time_format:"2006-01-02T15:04:05Z07:00"`
	CategoryID  *string    `json:"category_id" form:"category_id"`
	LocationID  *string    `json:"location_id" form:"location_id"`
	IsPublished *bool      `json:"is_published" form:"is_published"`
}

type authorResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar,omitempty"`
}

type categoryResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

type locationResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type commentResponse struct {
	ID      string          `json:"id"`
	Text    string          `json:"text"`
	Author  *authorResponse `json:"author"`
	Created time.Time       `json:"created_at"`
}

// postResponse is the shape rendered in listings.
type postResponse struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Text         string            `json:"text"`
	PubDate      time.Time         `json:"pub_date"`
	Author       *authorResponse   `json:"author"`
	Category     *categoryResponse `json:"category"`
	Location     *locationResponse `json:"location"`
	Image        string            `json:"image,omitempty"`
	IsPublished  bool              `json:"is_published"`
	CommentCount int64             `json:"comment_count"`
	Created      time.Time         `json:"created_at"`
}

// detailResponse adds the rendered body, the chronological comment thread
// and a blank comment form for the template layer.
type detailResponse struct {
	postResponse
	TextHTML string            `json:"text_html"`
	Comments []commentResponse `json:"comments"`
	Form     commentFormStub   `json:"form"`
}

type commentFormStub struct {
	Text string `json:"text"`
}

func toAuthorResponse(u *models.UserModel) *authorResponse {
	if u == nil {
		return nil
	}
	return &authorResponse{ID: u.ID, Username: u.Username, Name: u.Name, Avatar: u.Avatar}
}

func toResponse(p *models.PostModel) postResponse {
	resp := postResponse{
		ID:           p.ID,
		Title:        p.Title,
		Text:         p.Text,
		PubDate:      p.PubDate,
		Author:       toAuthorResponse(p.Author),
		Image:        p.Image,
		IsPublished:  p.IsPublished,
		CommentCount: p.CommentCount,
		Created:      p.CreatedAt,
	}
	if p.Category != nil {
		resp.Category = &categoryResponse{ID: p.Category.ID, Title: p.Category.Title, Slug: p.Category.Slug}
	}
	if p.Location != nil {
		resp.Location = &locationResponse{ID: p.Location.ID, Name: p.Location.Name}
	}
	return resp
}

func toDetailResponse(p *models.PostModel) detailResponse {
	comments := make([]commentResponse, len(p.Comments))
	for i, cm := range p.Comments {
		comments[i] = commentResponse{
			ID:      cm.ID,
			Text:    cm.Text,
			Author:  toAuthorResponse(cm.Author),
			Created: cm.CreatedAt,
		}
	}
	return detailResponse{
		postResponse: toResponse(p),
		TextHTML:     markdown.Render(p.Text),
		Comments:     comments,
	}
}
