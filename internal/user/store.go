package user

import (
	"context"
	"errors"
	"time"

	"github.com/eleven-am/blog-backend/internal/shared"
	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&User{})
}

// WithTx returns a store bound to an open transaction so callers can keep
// a logical operation in a single unit of work.
func (s *Store) WithTx(tx *gorm.DB) *Store {
	return &Store{db: tx}
}

// DB exposes the underlying handle for callers that own the transaction
// boundary (reconciliation, point awards).
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) Create(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = shared.NewID("user_")
	}
	if u.Role == "" {
		u.Role = shared.RoleReader
	}
	if u.LastSeen.IsZero() {
		u.LastSeen = time.Now().UTC()
	}
	err := s.db.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrConflict
	}
	return err
}

func (s *Store) GetByID(ctx context.Context, id string) (*User, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *Store) GetByUsername(ctx context.Context, username string) (*User, error) {
	return s.first(ctx, "username = ?", username)
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.first(ctx, "email = ?", email)
}

func (s *Store) GetByGoogleID(ctx context.Context, googleID string) (*User, error) {
	return s.first(ctx, "google_id = ?", googleID)
}

func (s *Store) first(ctx context.Context, query string, arg any) (*User, error) {
	var u User
	err := s.db.WithContext(ctx).Where(query, arg).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) Save(ctx context.Context, u *User) error {
	err := s.db.WithContext(ctx).Save(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrConflict
	}
	return err
}

func (s *Store) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// CountAdmins backs the admin-bootstrap policy: the first federated login
// is promoted when this returns zero.
func (s *Store) CountAdmins(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&User{}).Where("is_admin = ?", true).Count(&count).Error
	return count, err
}

func (s *Store) TouchLastSeen(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).
		Update("last_seen", time.Now().UTC()).Error
}
