package dto

type RegisterRequest struct {
	Username        string `json:"username" example:"ada"`
	Email           string `json:"email" example:"ada@example.com"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type LoginRequest struct {
	Username string `json:"username" example:"ada"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
	Next     string `json:"next,omitempty" example:"/account"`
}

type LoginResponse struct {
	User     MeResponse `json:"user"`
	Redirect string     `json:"redirect" example:"/"`
}

// UpdateProfileRequest is a partial update: nil pointer fields are left
// untouched, and an explicit empty avatar clears it.
type UpdateProfileRequest struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Bio      *string `json:"bio"`
	Avatar   *string `json:"avatar"`
}

type MeResponse struct {
	ID       string          `json:"id" example:"user_abc123"`
	Username string          `json:"username" example:"ada"`
	Email    string          `json:"email" example:"ada@example.com"`
	Role     string          `json:"role" example:"reader"`
	IsAdmin  bool            `json:"is_admin" example:"false"`
	Avatar   string          `json:"avatar,omitempty"`
	Bio      string          `json:"bio,omitempty"`
	Points   int             `json:"points" example:"1"`
	Streak   int             `json:"streak" example:"1"`
	Badges   []BadgeResponse `json:"badges,omitempty"`
}

type BadgeResponse struct {
	Name        string `json:"name" example:"First Step"`
	Description string `json:"description" example:"Earned your very first point"`
	Icon        string `json:"icon" example:"footprints"`
}

// AuthResult is returned by the OAuth callback: the resolved account plus
// any congratulatory badge notifications the client should surface once.
type AuthResult struct {
	User      MeResponse `json:"user"`
	NewBadges []string   `json:"new_badges,omitempty"`
	Redirect  string     `json:"redirect" example:"/"`
}
