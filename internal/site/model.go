package site

import "time"

// Settings is a singleton row of site-wide metadata.
type Settings struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	SiteName  string    `gorm:"default:My Blog;size:100" json:"site_name"`
	Telegram  string    `gorm:"size:100" json:"telegram,omitempty"`
	Instagram string    `gorm:"size:200" json:"instagram,omitempty"`
	GitHub    string    `gorm:"size:200" json:"github,omitempty"`
	Twitter   string    `gorm:"size:200" json:"twitter,omitempty"`
	YouTube   string    `gorm:"size:200" json:"youtube,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
