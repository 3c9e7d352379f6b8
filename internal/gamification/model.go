package gamification

import "time"

// Badge is a globally defined award. Badges are created lazily the first
// time any user meets their criteria, then reused forever.
type Badge struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null;size:50" json:"name"`
	Description string    `gorm:"size:200" json:"description"`
	Icon        string    `gorm:"size:50" json:"icon"`
	Criteria    string    `gorm:"size:100" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserBadge records that a user holds a badge. The composite primary key
// makes awarding idempotent at the storage layer.
type UserBadge struct {
	UserID   string    `gorm:"primaryKey;size:64" json:"user_id"`
	BadgeID  string    `gorm:"primaryKey;size:64" json:"badge_id"`
	EarnedAt time.Time `json:"earned_at"`
}
