package post

import (
	"strings"
	"time"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

type Category struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null;size:50" json:"name"`
	Slug        string    `gorm:"uniqueIndex;not null;size:50" json:"slug"`
	Description string    `json:"description,omitempty"`
	Color       string    `gorm:"default:blue;size:20" json:"color"`
	CreatedAt   time.Time `json:"created_at"`
}

type Post struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"not null;size:150" json:"title"`
	Slug       string    `gorm:"uniqueIndex;not null;size:150" json:"slug"`
	Content    string    `gorm:"not null" json:"content"`
	Summary    string    `json:"summary,omitempty"`
	ImageURL   string    `gorm:"size:255" json:"image_url,omitempty"`
	VideoURL   string    `gorm:"size:255" json:"video_url,omitempty"`
	AudioURL   string    `gorm:"size:255" json:"audio_url,omitempty"`
	Status     string    `gorm:"default:published;size:20" json:"status"`
	Views      int64     `gorm:"default:0" json:"views"`
	Likes      int64     `gorm:"default:0" json:"likes"`
	CategoryID *string   `gorm:"index" json:"category_id,omitempty"`
	AuthorID   *string   `gorm:"index" json:"author_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ReadTime estimates reading minutes at 200 words per minute, never less
// than one.
func (p *Post) ReadTime() int {
	words := len(strings.Fields(p.Content))
	minutes := (words + 199) / 200
	if minutes < 1 {
		return 1
	}
	return minutes
}

type Comment struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	Content    string    `gorm:"not null" json:"content"`
	IsApproved bool      `gorm:"default:true" json:"is_approved"`
	PostID     string    `gorm:"not null;index" json:"post_id"`
	UserID     *string   `gorm:"index" json:"user_id,omitempty"`
	AuthorName string    `gorm:"size:80" json:"author_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
