package site

import (
	"context"
	"errors"

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
	return s.db.AutoMigrate(&Settings{})
}

// Get returns the settings row, creating the default one on first read. A
// concurrent first read losing the insert race falls back to the winner's
// row.
func (s *Store) Get(ctx context.Context) (*Settings, error) {
	var settings Settings
	err := s.db.WithContext(ctx).First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	settings = Settings{ID: shared.NewID("site_"), SiteName: "My Blog"}
	if err := s.db.WithContext(ctx).Create(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing Settings
			if err := s.db.WithContext(ctx).First(&existing).Error; err != nil {
				return nil, err
			}
			return &existing, nil
		}
		return nil, err
	}
	return &settings, nil
}

func (s *Store) Save(ctx context.Context, settings *Settings) error {
	return s.db.WithContext(ctx).Save(settings).Error
}
