package post

import (
	"context"
	"errors"

	"github.com/eleven-am/blog-backend/internal/shared"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&Category{}, &Post{}, &Comment{})
}

func (s *Store) CreateCategory(ctx context.Context, cat *Category) error {
	if cat.ID == "" {
		cat.ID = shared.NewID("cat_")
	}
	cat.Slug = slug.Make(cat.Name)
	err := s.db.WithContext(ctx).Create(cat).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrConflict
	}
	return err
}

func (s *Store) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	err := s.db.WithContext(ctx).Order("name").Find(&categories).Error
	return categories, err
}

func (s *Store) GetCategoryBySlug(ctx context.Context, categorySlug string) (*Category, error) {
	var cat Category
	err := s.db.WithContext(ctx).Where("slug = ?", categorySlug).First(&cat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

type ListOptions struct {
	CategorySlug  string
	Search        string
	Page          int
	PerPage       int
	IncludeDrafts bool
}

func (s *Store) ListPosts(ctx context.Context, opts ListOptions) ([]Post, int64, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PerPage < 1 {
		opts.PerPage = 9
	}

	query := s.db.WithContext(ctx).Model(&Post{})
	if !opts.IncludeDrafts {
		query = query.Where("status = ?", StatusPublished)
	}
	if opts.CategorySlug != "" {
		cat, err := s.GetCategoryBySlug(ctx, opts.CategorySlug)
		if err != nil {
			return nil, 0, err
		}
		query = query.Where("category_id = ?", cat.ID)
	}
	if opts.Search != "" {
		pattern := "%" + opts.Search + "%"
		query = query.Where("title LIKE ? OR content LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []Post
	err := query.Order("created_at DESC").
		Offset((opts.Page - 1) * opts.PerPage).
		Limit(opts.PerPage).
		Find(&posts).Error
	return posts, total, err
}

func (s *Store) Create(ctx context.Context, p *Post) error {
	if p.ID == "" {
		p.ID = shared.NewID("post_")
	}
	if p.Slug == "" {
		p.Slug = slug.Make(p.Title)
	}
	if p.Status == "" {
		p.Status = StatusPublished
	}
	err := s.db.WithContext(ctx).Create(p).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrConflict
	}
	return err
}

func (s *Store) GetByID(ctx context.Context, id string) (*Post, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *Store) GetBySlug(ctx context.Context, postSlug string) (*Post, error) {
	return s.first(ctx, "slug = ?", postSlug)
}

func (s *Store) first(ctx context.Context, query string, arg any) (*Post, error) {
	var p Post
	err := s.db.WithContext(ctx).Where(query, arg).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) Save(ctx context.Context, p *Post) error {
	err := s.db.WithContext(ctx).Save(p).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrConflict
	}
	return err
}

func (s *Store) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("post_id = ?", id).Delete(&Comment{})
	if result.Error != nil {
		return result.Error
	}
	result = s.db.WithContext(ctx).Where("id = ?", id).Delete(&Post{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// IncrementViews bumps the view counter without loading the row.
func (s *Store) IncrementViews(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Model(&Post{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// IncrementLikesTx returns a mutation suitable for running inside the
// point-award transaction, so the like counter and the liker's points move
// in the same unit of work.
func (s *Store) IncrementLikesTx(id string) func(tx *gorm.DB) error {
	return func(tx *gorm.DB) error {
		result := tx.Model(&Post{}).Where("id = ?", id).
			UpdateColumn("likes", gorm.Expr("likes + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	}
}

func (s *Store) AddComment(ctx context.Context, comment *Comment) error {
	if comment.ID == "" {
		comment.ID = shared.NewID("comment_")
	}
	return s.db.WithContext(ctx).Create(comment).Error
}

func (s *Store) ListComments(ctx context.Context, postID string) ([]Comment, error) {
	var comments []Comment
	err := s.db.WithContext(ctx).
		Where("post_id = ? AND is_approved = ?", postID, true).
		Order("created_at DESC").
		Find(&comments).Error
	return comments, err
}

// Related returns up to limit other published posts in the same category.
func (s *Store) Related(ctx context.Context, p *Post, limit int) ([]Post, error) {
	if p.CategoryID == nil {
		return nil, nil
	}
	var posts []Post
	err := s.db.WithContext(ctx).
		Where("category_id = ? AND id <> ? AND status = ?", *p.CategoryID, p.ID, StatusPublished).
		Limit(limit).
		Find(&posts).Error
	return posts, err
}
