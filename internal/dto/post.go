package dto

type PostRequest struct {
	Title      string `json:"title" example:"Go at the edge"`
	Summary    string `json:"summary,omitempty"`
	Content    string `json:"content"`
	CategoryID string `json:"category_id,omitempty"`
	Status     string `json:"status,omitempty" example:"published"`
	ImageURL   string `json:"image_url,omitempty"`
	VideoURL   string `json:"video_url,omitempty"`
	AudioURL   string `json:"audio_url,omitempty"`
}

type CommentRequest struct {
	Author  string `json:"author,omitempty" example:"Ada"`
	Content string `json:"content"`
}

type CategoryRequest struct {
	Name        string `json:"name" example:"Programming"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty" example:"blue"`
}

// LikeResponse reports the result of a like: the liker's new point balance
// and any badge newly earned by it.
type LikeResponse struct {
	Status    string   `json:"status" example:"success"`
	Points    int      `json:"points" example:"1"`
	NewBadges []string `json:"new_badges,omitempty"`
}
