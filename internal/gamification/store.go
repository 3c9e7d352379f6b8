package gamification

import (
	"context"
	"errors"
	"time"

	"github.com/eleven-am/blog-backend/internal/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&Badge{}, &UserBadge{})
}

// EnsureBadge returns the badge for the rule, creating it on first use.
// The insert is conditional on the unique name, so a concurrent duplicate
// insert degrades to "already exists" instead of an error.
func (s *Store) EnsureBadge(ctx context.Context, tx *gorm.DB, rule Rule) (*Badge, error) {
	badge := &Badge{
		ID:          shared.NewID("badge_"),
		Name:        rule.Name,
		Description: rule.Description,
		Icon:        rule.Icon,
		Criteria:    rule.Criteria,
	}

	err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(badge).Error
	if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, err
	}

	var existing Badge
	if err := tx.WithContext(ctx).Where("name = ?", rule.Name).First(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// GrantBadge associates a badge with a user, reporting whether the
// association is new. A concurrent duplicate grant is not an error.
func (s *Store) GrantBadge(ctx context.Context, tx *gorm.DB, userID, badgeID string) (bool, error) {
	assoc := &UserBadge{
		UserID:   userID,
		BadgeID:  badgeID,
		EarnedAt: time.Now().UTC(),
	}

	result := tx.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(assoc)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// BadgesFor lists the badges a user holds, oldest first.
func (s *Store) BadgesFor(ctx context.Context, userID string) ([]Badge, error) {
	var badges []Badge
	err := s.db.WithContext(ctx).
		Joins("JOIN user_badges ON user_badges.badge_id = badges.id").
		Where("user_badges.user_id = ?", userID).
		Order("user_badges.earned_at").
		Find(&badges).Error
	return badges, err
}
