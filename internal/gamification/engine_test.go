package gamification

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/eleven-am/blog-backend/internal/user"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestEngine(t *testing.T) (*Engine, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := user.NewStore(db).Migrate(); err != nil {
		t.Fatalf("user migration failed: %v", err)
	}
	store := NewStore(db)
	if err := store.Migrate(); err != nil {
		t.Fatalf("badge migration failed: %v", err)
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewEngine(db, store, DefaultRules, log), db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *user.User {
	t.Helper()
	u := &user.User{Username: username, Email: username + "@example.com"}
	if err := user.NewStore(db).Create(context.Background(), u); err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return u
}

func TestAwardPoints_FirstPointAwardsFirstStep(t *testing.T) {
	engine, db := setupTestEngine(t)
	u := createTestUser(t, db, "ada")
	ctx := context.Background()

	points, newBadges, err := engine.AwardPoints(ctx, u.ID, 1)
	if err != nil {
		t.Fatalf("award failed: %v", err)
	}
	if points != 1 {
		t.Errorf("expected 1 point, got %d", points)
	}
	if len(newBadges) != 1 || newBadges[0] != "First Step" {
		t.Errorf("expected [First Step], got %v", newBadges)
	}
}

func TestAwardPoints_TenthPointAwardsReaderOnly(t *testing.T) {
	engine, db := setupTestEngine(t)
	u := createTestUser(t, db, "ada")
	ctx := context.Background()

	if _, _, err := engine.AwardPoints(ctx, u.ID, 1); err != nil {
		t.Fatalf("first award failed: %v", err)
	}

	var points int
	var newBadges []string
	var err error
	for i := 0; i < 9; i++ {
		points, newBadges, err = engine.AwardPoints(ctx, u.ID, 1)
		if err != nil {
			t.Fatalf("award %d failed: %v", i, err)
		}
	}

	if points != 10 {
		t.Errorf("expected 10 points, got %d", points)
	}
	// First Step was already held; only the new threshold signals.
	if len(newBadges) != 1 || newBadges[0] != "Reader" {
		t.Errorf("expected [Reader], got %v", newBadges)
	}
}

func TestAwardPoints_BigJumpAwardsEveryQualifiedBadge(t *testing.T) {
	engine, db := setupTestEngine(t)
	u := createTestUser(t, db, "ada")

	_, newBadges, err := engine.AwardPoints(context.Background(), u.ID, 25)
	if err != nil {
		t.Fatalf("award failed: %v", err)
	}
	if len(newBadges) != 2 || newBadges[0] != "First Step" || newBadges[1] != "Reader" {
		t.Errorf("expected [First Step Reader], got %v", newBadges)
	}
}

func TestAwardPoints_NoDuplicateSignals(t *testing.T) {
	engine, db := setupTestEngine(t)
	u := createTestUser(t, db, "ada")
	ctx := context.Background()

	if _, _, err := engine.AwardPoints(ctx, u.ID, 15); err != nil {
		t.Fatalf("first award failed: %v", err)
	}

	_, newBadges, err := engine.AwardPoints(ctx, u.ID, 1)
	if err != nil {
		t.Fatalf("second award failed: %v", err)
	}
	if len(newBadges) != 0 {
		t.Errorf("expected no new badges, got %v", newBadges)
	}

	badges, err := engine.BadgesFor(ctx, u.ID)
	if err != nil {
		t.Fatalf("badges lookup failed: %v", err)
	}
	if len(badges) != 2 {
		t.Errorf("expected exactly 2 badge rows, got %d", len(badges))
	}
}

func TestAwardPoints_ExtraMutationSharesTransaction(t *testing.T) {
	engine, db := setupTestEngine(t)
	u := createTestUser(t, db, "ada")
	ctx := context.Background()

	touched := false
	_, _, err := engine.AwardPoints(ctx, u.ID, 1, func(tx *gorm.DB) error {
		touched = true
		return tx.Model(&user.User{}).Where("id = ?", u.ID).
			UpdateColumn("streak", gorm.Expr("streak + 1")).Error
	})
	if err != nil {
		t.Fatalf("award failed: %v", err)
	}
	if !touched {
		t.Fatal("extra mutation never ran")
	}

	saved, err := user.NewStore(db).GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if saved.Points != 1 {
		t.Errorf("expected 1 point, got %d", saved.Points)
	}
	if saved.Streak != 1 {
		t.Errorf("expected the extra mutation to commit, got streak %d", saved.Streak)
	}
}

func TestAwardPoints_ExtraFailureRollsBackPoints(t *testing.T) {
	engine, db := setupTestEngine(t)
	u := createTestUser(t, db, "ada")
	ctx := context.Background()

	_, _, err := engine.AwardPoints(ctx, u.ID, 1, func(tx *gorm.DB) error {
		return gorm.ErrInvalidData
	})
	if err == nil {
		t.Fatal("expected the transaction to fail")
	}

	saved, lookupErr := user.NewStore(db).GetByID(ctx, u.ID)
	if lookupErr != nil {
		t.Fatalf("lookup failed: %v", lookupErr)
	}
	if saved.Points != 0 {
		t.Errorf("expected the point grant to roll back, got %d", saved.Points)
	}

	badges, badgeErr := engine.BadgesFor(ctx, u.ID)
	if badgeErr != nil {
		t.Fatalf("badges lookup failed: %v", badgeErr)
	}
	if len(badges) != 0 {
		t.Errorf("expected no badges after rollback, got %v", badges)
	}
}

func TestBadgeSummaries(t *testing.T) {
	engine, db := setupTestEngine(t)
	u := createTestUser(t, db, "ada")
	ctx := context.Background()

	if _, _, err := engine.AwardPoints(ctx, u.ID, 1); err != nil {
		t.Fatalf("award failed: %v", err)
	}

	summaries, err := engine.BadgeSummaries(ctx, u.ID)
	if err != nil {
		t.Fatalf("summaries failed: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected one badge, got %d", len(summaries))
	}
	if summaries[0].Name != "First Step" || summaries[0].Icon != "footprints" {
		t.Errorf("unexpected summary: %+v", summaries[0])
	}
}
