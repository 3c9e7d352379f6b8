package post

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/eleven-am/blog-backend/internal/dto"
	"github.com/eleven-am/blog-backend/internal/shared"
	"github.com/eleven-am/blog-backend/internal/user"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// PointAwarder runs a point award plus badge evaluation in its own
// transaction, folding any extra mutations into the same unit of work.
type PointAwarder interface {
	AwardPoints(ctx context.Context, userID string, amount int, extra ...func(tx *gorm.DB) error) (int, []string, error)
}

type Handler struct {
	store   *Store
	awarder PointAwarder
	logger  *slog.Logger
}

func NewHandler(store *Store, awarder PointAwarder, logger *slog.Logger) *Handler {
	return &Handler{
		store:   store,
		awarder: awarder,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group, m *user.Middleware) {
	g.GET("/posts", h.ListPosts)
	g.GET("/posts/:slug", h.GetPost)
	g.POST("/posts/:slug/comments", h.AddComment, m.OptionalAuthenticate)
	g.POST("/posts/:slug/like", h.Like, m.Authenticate)
	g.GET("/categories", h.ListCategories)

	g.POST("/posts", h.CreatePost, m.RequireAdmin)
	g.PUT("/posts/:id", h.UpdatePost, m.RequireAdmin)
	g.DELETE("/posts/:id", h.DeletePost, m.RequireAdmin)
	g.POST("/categories", h.CreateCategory, m.RequireAdmin)
}

// @Summary      List published posts
// @Tags         posts
// @Produce      json
// @Param        page      query  int     false  "page number"
// @Param        category  query  string  false  "category slug"
// @Param        q         query  string  false  "search query"
// @Success      200  {array}  post.Post
// @Router       /posts [get]
func (h *Handler) ListPosts(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	posts, total, err := h.store.ListPosts(c.Request().Context(), ListOptions{
		CategorySlug: c.QueryParam("category"),
		Search:       c.QueryParam("q"),
		Page:         page,
	})
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NotFound("category_not_found", "category not found")
		}
		h.logger.Error("failed to list posts", "error", err)
		return shared.InternalError("list_failed", "failed to list posts")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"posts": posts,
		"total": total,
	})
}

// @Summary      Get a post by slug
// @Description  Increments the post's view counter as a side effect
// @Tags         posts
// @Produce      json
// @Success      200  {object}  post.Post
// @Failure      404  {object}  shared.APIError
// @Router       /posts/{slug} [get]
func (h *Handler) GetPost(c echo.Context) error {
	ctx := c.Request().Context()

	p, err := h.store.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NotFound("post_not_found", "post not found")
		}
		h.logger.Error("failed to get post", "error", err)
		return shared.InternalError("get_failed", "failed to load post")
	}

	if err := h.store.IncrementViews(ctx, p.ID); err != nil {
		h.logger.Error("failed to bump views", "error", err, "post_id", p.ID)
	} else {
		p.Views++
	}

	comments, err := h.store.ListComments(ctx, p.ID)
	if err != nil {
		h.logger.Error("failed to list comments", "error", err, "post_id", p.ID)
	}
	related, err := h.store.Related(ctx, p, 3)
	if err != nil {
		h.logger.Error("failed to load related posts", "error", err, "post_id", p.ID)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"post":      p,
		"read_time": p.ReadTime(),
		"comments":  comments,
		"related":   related,
	})
}

// @Summary      Like a post
// @Description  Bumps the like counter and awards the liker one point; likes are deliberately repeatable
// @Tags         posts
// @Produce      json
// @Success      200  {object}  dto.LikeResponse
// @Failure      404  {object}  shared.APIError
// @Router       /posts/{slug}/like [post]
func (h *Handler) Like(c echo.Context) error {
	u := user.CurrentUser(c)
	if u == nil {
		return shared.Unauthorized("auth_required", "authentication required")
	}

	ctx := c.Request().Context()
	p, err := h.store.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NotFound("post_not_found", "post not found")
		}
		h.logger.Error("failed to get post", "error", err)
		return shared.InternalError("like_failed", "failed to like post")
	}

	points, newBadges, err := h.awarder.AwardPoints(ctx, u.ID, 1, h.store.IncrementLikesTx(p.ID))
	if err != nil {
		h.logger.Error("like transaction failed", "error", err, "post_id", p.ID, "user_id", u.ID)
		return shared.InternalError("like_failed", "failed to like post")
	}

	return c.JSON(http.StatusOK, dto.LikeResponse{
		Status:    "success",
		Points:    points,
		NewBadges: newBadges,
	})
}

// @Summary      Comment on a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Success      201  {object}  post.Comment
// @Failure      400  {object}  shared.APIError
// @Router       /posts/{slug}/comments [post]
func (h *Handler) AddComment(c echo.Context) error {
	var req dto.CommentRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_request", "invalid request body")
	}
	if req.Content == "" {
		return shared.BadRequest("validation_failed", "comment content is required")
	}

	ctx := c.Request().Context()
	p, err := h.store.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NotFound("post_not_found", "post not found")
		}
		h.logger.Error("failed to get post", "error", err)
		return shared.InternalError("comment_failed", "failed to add comment")
	}

	comment := &Comment{
		Content:    req.Content,
		PostID:     p.ID,
		AuthorName: req.Author,
		IsApproved: true,
	}
	if u := user.CurrentUser(c); u != nil {
		comment.UserID = &u.ID
		comment.AuthorName = u.Username
	} else if comment.AuthorName == "" {
		return shared.BadRequest("validation_failed", "author name is required")
	}

	if err := h.store.AddComment(ctx, comment); err != nil {
		h.logger.Error("failed to add comment", "error", err, "post_id", p.ID)
		return shared.InternalError("comment_failed", "failed to add comment")
	}

	return c.JSON(http.StatusCreated, comment)
}

// @Summary      List categories
// @Tags         posts
// @Produce      json
// @Success      200  {array}  post.Category
// @Router       /categories [get]
func (h *Handler) ListCategories(c echo.Context) error {
	categories, err := h.store.ListCategories(c.Request().Context())
	if err != nil {
		h.logger.Error("failed to list categories", "error", err)
		return shared.InternalError("list_failed", "failed to list categories")
	}
	return c.JSON(http.StatusOK, categories)
}

// @Summary      Create a post
// @Tags         admin
// @Accept       json
// @Produce      json
// @Success      201  {object}  post.Post
// @Failure      409  {object}  shared.APIError
// @Router       /posts [post]
func (h *Handler) CreatePost(c echo.Context) error {
	var req dto.PostRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_request", "invalid request body")
	}
	if req.Title == "" || req.Content == "" {
		return shared.BadRequest("validation_failed", "title and content are required")
	}

	p := &Post{
		Title:    req.Title,
		Summary:  req.Summary,
		Content:  req.Content,
		Status:   req.Status,
		ImageURL: req.ImageURL,
		VideoURL: req.VideoURL,
		AudioURL: req.AudioURL,
	}
	if req.CategoryID != "" {
		p.CategoryID = &req.CategoryID
	}
	if u := user.CurrentUser(c); u != nil {
		p.AuthorID = &u.ID
	}

	if err := h.store.Create(c.Request().Context(), p); err != nil {
		if errors.Is(err, shared.ErrConflict) {
			return shared.Conflict("slug_taken", "a post with this title already exists")
		}
		h.logger.Error("failed to create post", "error", err)
		return shared.InternalError("create_failed", "failed to create post")
	}

	return c.JSON(http.StatusCreated, p)
}

// @Summary      Update a post
// @Tags         admin
// @Accept       json
// @Produce      json
// @Success      200  {object}  post.Post
// @Failure      404  {object}  shared.APIError
// @Router       /posts/{id} [put]
func (h *Handler) UpdatePost(c echo.Context) error {
	var req dto.PostRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_request", "invalid request body")
	}

	ctx := c.Request().Context()
	p, err := h.store.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NotFound("post_not_found", "post not found")
		}
		h.logger.Error("failed to get post", "error", err)
		return shared.InternalError("update_failed", "failed to update post")
	}

	if req.Title != "" {
		p.Title = req.Title
	}
	if req.Content != "" {
		p.Content = req.Content
	}
	p.Summary = req.Summary
	if req.Status != "" {
		p.Status = req.Status
	}
	if req.CategoryID != "" {
		p.CategoryID = &req.CategoryID
	}
	if req.ImageURL != "" {
		p.ImageURL = req.ImageURL
	}
	if req.VideoURL != "" {
		p.VideoURL = req.VideoURL
	}
	if req.AudioURL != "" {
		p.AudioURL = req.AudioURL
	}

	if err := h.store.Save(ctx, p); err != nil {
		h.logger.Error("failed to update post", "error", err, "post_id", p.ID)
		return shared.InternalError("update_failed", "failed to update post")
	}

	return c.JSON(http.StatusOK, p)
}

// @Summary      Delete a post
// @Tags         admin
// @Success      204  "No Content"
// @Failure      404  {object}  shared.APIError
// @Router       /posts/{id} [delete]
func (h *Handler) DeletePost(c echo.Context) error {
	if err := h.store.Delete(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NotFound("post_not_found", "post not found")
		}
		h.logger.Error("failed to delete post", "error", err)
		return shared.InternalError("delete_failed", "failed to delete post")
	}
	return c.NoContent(http.StatusNoContent)
}

// @Summary      Create a category
// @Tags         admin
// @Accept       json
// @Produce      json
// @Success      201  {object}  post.Category
// @Failure      409  {object}  shared.APIError
// @Router       /categories [post]
func (h *Handler) CreateCategory(c echo.Context) error {
	var req dto.CategoryRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_request", "invalid request body")
	}
	if req.Name == "" {
		return shared.BadRequest("validation_failed", "category name is required")
	}

	cat := &Category{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	}
	if err := h.store.CreateCategory(c.Request().Context(), cat); err != nil {
		if errors.Is(err, shared.ErrConflict) {
			return shared.Conflict("category_exists", "a category with this name already exists")
		}
		h.logger.Error("failed to create category", "error", err)
		return shared.InternalError("create_failed", "failed to create category")
	}

	return c.JSON(http.StatusCreated, cat)
}
