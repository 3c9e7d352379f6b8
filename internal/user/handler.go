package user

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/eleven-am/blog-backend/internal/dto"
	"github.com/eleven-am/blog-backend/internal/shared"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// BadgeLister exposes a user's badge set for profile responses without the
// handler depending on the gamification package directly.
type BadgeLister interface {
	BadgeSummaries(ctx context.Context, userID string) ([]dto.BadgeResponse, error)
}

type Handler struct {
	store      *Store
	reconciler *Reconciler
	provider   Provider
	awarder    PointAwarder
	badges     BadgeLister
	sessions   *SessionManager
	logger     *slog.Logger
}

func NewHandler(store *Store, reconciler *Reconciler, provider Provider, awarder PointAwarder, badges BadgeLister, sessions *SessionManager, logger *slog.Logger) *Handler {
	return &Handler{
		store:      store,
		reconciler: reconciler,
		provider:   provider,
		awarder:    awarder,
		badges:     badges,
		sessions:   sessions,
		logger:     logger,
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group, m *Middleware) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout)
	g.GET("/google", h.GoogleLogin)
	g.GET("/google/callback", h.GoogleCallback)
	g.GET("/me", h.Me, m.Authenticate)
	g.PUT("/me", h.UpdateProfile, m.Authenticate)
}

// @Summary      Register a local account
// @Description  Creates a password account, seeds the registration point bonus and evaluates badges
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      201  {object}  dto.AuthResult
// @Failure      400  {object}  shared.APIError
// @Router       /auth/register [post]
func (h *Handler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_request", "invalid request body")
	}

	ctx := c.Request().Context()
	if fieldErrs := h.validateRegistration(ctx, &req); len(fieldErrs) > 0 {
		return shared.NewAPIError("validation_failed", "please fix the highlighted fields").
			WithDetails(fieldErrs).ToHTTP(http.StatusBadRequest)
	}

	u := &User{
		Username: req.Username,
		Email:    req.Email,
		Role:     shared.RoleReader,
	}
	if err := u.SetPassword(req.Password); err != nil {
		h.logger.Error("failed to hash password", "error", err)
		return shared.InternalError("registration_failed", "could not create account")
	}

	var newBadges []string
	err := h.store.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := h.store.WithTx(tx).Create(ctx, u); err != nil {
			return err
		}
		points, badges, err := h.awarder.Award(ctx, tx, u.ID, registrationBonus)
		if err != nil {
			return err
		}
		u.Points = points
		newBadges = badges
		return nil
	})
	if err != nil {
		if errors.Is(err, shared.ErrConflict) {
			return shared.Conflict("registration_conflict", "username or email is already taken")
		}
		h.logger.Error("registration failed", "error", err)
		return shared.InternalError("registration_failed", "could not create account")
	}

	return c.JSON(http.StatusCreated, dto.AuthResult{
		User:      h.meResponse(ctx, u),
		NewBadges: newBadges,
		Redirect:  "/login",
	})
}

// @Summary      Local login
// @Description  Verifies credentials and establishes a session. The failure message never reveals whether the username exists.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.LoginResponse
// @Failure      401  {object}  shared.APIError
// @Router       /auth/login [post]
func (h *Handler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_request", "invalid request body")
	}

	ctx := c.Request().Context()
	u, err := h.store.GetByUsername(ctx, req.Username)
	if err != nil || !u.CheckPassword(req.Password) {
		return shared.Unauthorized("auth_failed", "login or password is incorrect")
	}

	h.sessions.Establish(c, u.ID, req.Remember)

	return c.JSON(http.StatusOK, dto.LoginResponse{
		User:     h.meResponse(ctx, u),
		Redirect: h.sessions.ResolveRedirectTarget(req.Next, requestHostURL(c)),
	})
}

// @Summary      Logout
// @Tags         auth
// @Success      204  "No Content"
// @Router       /auth/logout [post]
func (h *Handler) Logout(c echo.Context) error {
	h.sessions.Terminate(c)
	return c.NoContent(http.StatusNoContent)
}

// @Summary      Begin Google login
// @Description  Redirects to the Google consent screen with a signed state carrying the sanitized next target
// @Tags         auth
// @Success      302
// @Router       /auth/google [get]
func (h *Handler) GoogleLogin(c echo.Context) error {
	if h.provider == nil {
		return shared.NotFound("provider_unavailable", "google login is not configured")
	}

	next := h.sessions.ResolveRedirectTarget(c.QueryParam("next"), requestHostURL(c))
	state := h.sessions.GenerateOAuthState(next)
	return c.Redirect(http.StatusFound, h.provider.AuthURL(state))
}

// @Summary      Google OAuth callback
// @Description  Exchanges the code, reconciles the identity against local accounts and establishes a session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.AuthResult
// @Failure      401  {object}  shared.APIError
// @Router       /auth/google/callback [get]
func (h *Handler) GoogleCallback(c echo.Context) error {
	if h.provider == nil {
		return shared.NotFound("provider_unavailable", "google login is not configured")
	}

	ctx := c.Request().Context()

	if errParam := c.QueryParam("error"); errParam != "" {
		h.logger.Warn("provider returned an error", "provider", h.provider.Name(), "error", errParam)
		return shared.Unauthorized("login_failed", "could not sign you in, please try again")
	}

	state := c.QueryParam("state")
	if _, err := h.sessions.VerifyValue(state); err != nil {
		return shared.Unauthorized("login_failed", "could not sign you in, please try again")
	}

	assertion, err := h.provider.Exchange(ctx, c.QueryParam("code"))
	if err != nil {
		h.logger.Error("provider exchange failed", "provider", h.provider.Name(), "error", err)
		return shared.Unauthorized("login_failed", "could not sign you in, please try again")
	}

	u, newBadges, err := h.reconciler.Reconcile(ctx, assertion)
	if err != nil {
		// Detail was already logged by the reconciler; the caller only
		// ever sees a generic message.
		if errors.Is(err, shared.ErrConflict) {
			return shared.Conflict("login_conflict", "could not sign you in, please try again")
		}
		return shared.Unauthorized("login_failed", "could not sign you in, please try again")
	}

	h.sessions.Establish(c, u.ID, false)

	redirect := h.sessions.ExtractNext(state)
	if redirect == "" {
		redirect = defaultLanding
	}

	return c.JSON(http.StatusOK, dto.AuthResult{
		User:      h.meResponse(ctx, u),
		NewBadges: newBadges,
		Redirect:  redirect,
	})
}

// @Summary      Get current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.MeResponse
// @Failure      401  {object}  shared.APIError
// @Router       /auth/me [get]
func (h *Handler) Me(c echo.Context) error {
	u := CurrentUser(c)
	if u == nil {
		return shared.Unauthorized("auth_required", "authentication required")
	}
	return c.JSON(http.StatusOK, h.meResponse(c.Request().Context(), u))
}

// @Summary      Update profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.MeResponse
// @Failure      400  {object}  shared.APIError
// @Router       /auth/me [put]
func (h *Handler) UpdateProfile(c echo.Context) error {
	u := CurrentUser(c)
	if u == nil {
		return shared.Unauthorized("auth_required", "authentication required")
	}

	var req dto.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_request", "invalid request body")
	}

	ctx := c.Request().Context()
	fieldErrs := map[string]string{}

	if req.Username != "" && req.Username != u.Username {
		if taken, err := h.store.UsernameExists(ctx, req.Username); err != nil {
			h.logger.Error("username check failed", "error", err)
			return shared.InternalError("update_failed", "could not update profile")
		} else if taken {
			fieldErrs["username"] = "this username is already taken"
		} else {
			u.Username = req.Username
		}
	}
	if req.Email != "" && req.Email != u.Email {
		if taken, err := h.store.EmailExists(ctx, req.Email); err != nil {
			h.logger.Error("email check failed", "error", err)
			return shared.InternalError("update_failed", "could not update profile")
		} else if taken {
			fieldErrs["email"] = "this email is already registered"
		} else {
			u.Email = req.Email
		}
	}
	if len(fieldErrs) > 0 {
		return shared.NewAPIError("validation_failed", "please fix the highlighted fields").
			WithDetails(fieldErrs).ToHTTP(http.StatusBadRequest)
	}

	if req.Bio != nil {
		u.Bio = *req.Bio
	}
	if req.Avatar != nil {
		u.Avatar = shared.ParseAvatar(*req.Avatar)
	}

	if err := h.store.Save(ctx, u); err != nil {
		if errors.Is(err, shared.ErrConflict) {
			return shared.Conflict("update_conflict", "username or email is already taken")
		}
		h.logger.Error("profile update failed", "error", err, "user_id", u.ID)
		return shared.InternalError("update_failed", "could not update profile")
	}

	return c.JSON(http.StatusOK, h.meResponse(ctx, u))
}

func (h *Handler) validateRegistration(ctx context.Context, req *dto.RegisterRequest) map[string]string {
	errs := map[string]string{}

	if n := len(req.Username); n < 2 || n > 20 {
		errs["username"] = "username must be between 2 and 20 characters"
	}
	if !strings.Contains(req.Email, "@") {
		errs["email"] = "a valid email is required"
	}
	if req.Password == "" {
		errs["password"] = "password is required"
	} else if req.Password != req.ConfirmPassword {
		errs["confirm_password"] = "passwords do not match"
	}

	if _, ok := errs["username"]; !ok {
		if taken, err := h.store.UsernameExists(ctx, req.Username); err == nil && taken {
			errs["username"] = "this username is already taken"
		}
	}
	if _, ok := errs["email"]; !ok {
		if taken, err := h.store.EmailExists(ctx, req.Email); err == nil && taken {
			errs["email"] = "this email is already registered"
		}
	}

	return errs
}

func (h *Handler) meResponse(ctx context.Context, u *User) dto.MeResponse {
	resp := dto.MeResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role.String(),
		IsAdmin:  u.IsAdmin,
		Avatar:   u.Avatar.Ref(),
		Bio:      u.Bio,
		Points:   u.Points,
		Streak:   u.Streak,
	}

	if h.badges != nil {
		badges, err := h.badges.BadgeSummaries(ctx, u.ID)
		if err != nil {
			h.logger.Error("failed to list badges", "error", err, "user_id", u.ID)
		} else {
			resp.Badges = badges
		}
	}

	return resp
}

func requestHostURL(c echo.Context) string {
	return c.Scheme() + "://" + c.Request().Host
}
