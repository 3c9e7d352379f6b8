package gamification

import (
	"context"
	"log/slog"

	"github.com/eleven-am/blog-backend/internal/dto"
	"github.com/eleven-am/blog-backend/internal/user"
	"gorm.io/gorm"
)

// Engine mutates point balances and awards badges against the rule table.
// Point balances only ever grow here; nothing in the platform spends them.
type Engine struct {
	db     *gorm.DB
	store  *Store
	rules  []Rule
	logger *slog.Logger
}

func NewEngine(db *gorm.DB, store *Store, rules []Rule, logger *slog.Logger) *Engine {
	return &Engine{
		db:     db,
		store:  store,
		rules:  rules,
		logger: logger,
	}
}

// Award adds amount points to the user inside the caller's transaction,
// then evaluates badges against the new balance. It returns the resulting
// balance and the names of badges newly earned by this award.
func (e *Engine) Award(ctx context.Context, tx *gorm.DB, userID string, amount int) (int, []string, error) {
	err := tx.WithContext(ctx).Model(&user.User{}).Where("id = ?", userID).
		UpdateColumn("points", gorm.Expr("COALESCE(points, 0) + ?", amount)).Error
	if err != nil {
		return 0, nil, err
	}

	var points int
	err = tx.WithContext(ctx).Model(&user.User{}).Where("id = ?", userID).
		Pluck("points", &points).Error
	if err != nil {
		return 0, nil, err
	}

	newBadges, err := e.Evaluate(ctx, tx, userID, points)
	if err != nil {
		return 0, nil, err
	}

	return points, newBadges, nil
}

// AwardPoints is Award with the engine owning the transaction boundary.
// Extra mutations (for example a like counter) run in the same unit of
// work, so the whole logical operation commits or rolls back together.
func (e *Engine) AwardPoints(ctx context.Context, userID string, amount int, extra ...func(tx *gorm.DB) error) (int, []string, error) {
	var (
		points    int
		newBadges []string
	)

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, fn := range extra {
			if err := fn(tx); err != nil {
				return err
			}
		}

		var err error
		points, newBadges, err = e.Award(ctx, tx, userID, amount)
		return err
	})
	if err != nil {
		return 0, nil, err
	}

	if len(newBadges) > 0 {
		e.logger.Info("badges awarded", "user_id", userID, "badges", newBadges)
	}
	return points, newBadges, nil
}

// Evaluate walks the rule table in ascending threshold order and grants
// every badge the balance qualifies for. It is idempotent: badges already
// held are skipped and never re-signalled.
func (e *Engine) Evaluate(ctx context.Context, tx *gorm.DB, userID string, points int) ([]string, error) {
	var newBadges []string

	for _, rule := range e.rules {
		if points < rule.Threshold {
			break
		}

		badge, err := e.store.EnsureBadge(ctx, tx, rule)
		if err != nil {
			return nil, err
		}

		granted, err := e.store.GrantBadge(ctx, tx, userID, badge.ID)
		if err != nil {
			return nil, err
		}
		if granted {
			newBadges = append(newBadges, badge.Name)
		}
	}

	return newBadges, nil
}

// BadgesFor exposes a user's badge set for profile rendering.
func (e *Engine) BadgesFor(ctx context.Context, userID string) ([]Badge, error) {
	return e.store.BadgesFor(ctx, userID)
}

// BadgeSummaries adapts the badge set for profile responses.
func (e *Engine) BadgeSummaries(ctx context.Context, userID string) ([]dto.BadgeResponse, error) {
	badges, err := e.store.BadgesFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.BadgeResponse, 0, len(badges))
	for _, b := range badges {
		summaries = append(summaries, dto.BadgeResponse{
			Name:        b.Name,
			Description: b.Description,
			Icon:        b.Icon,
		})
	}
	return summaries, nil
}
