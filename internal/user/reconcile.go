package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/eleven-am/blog-backend/internal/shared"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const (
	maxUsernameLen    = 30
	registrationBonus = 1
)

// PointAwarder is the gamification hook invoked when a reconciliation
// creates a brand-new account (a registration event). It must run inside
// the supplied transaction and return the names of any newly earned badges.
type PointAwarder interface {
	Award(ctx context.Context, tx *gorm.DB, userID string, amount int) (int, []string, error)
}

// Reconciler maps an external identity assertion onto exactly one local
// account: reuse when the provider id is already linked, link when the
// email is known, create otherwise. Every call commits at most once.
type Reconciler struct {
	store      *Store
	awarder    PointAwarder
	adminEmail string
	logger     *slog.Logger
}

func NewReconciler(store *Store, awarder PointAwarder, adminEmail string, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		store:      store,
		awarder:    awarder,
		adminEmail: adminEmail,
		logger:     logger,
	}
}

// Reconcile resolves the assertion to a local user, applying the
// admin-bootstrap policy on the way. The returned slice names badges newly
// awarded when a fresh account was created. All mutations happen in one
// transaction; failures roll back and surface as a generic rejection
// (shared.ErrConflict for uniqueness races, shared.ErrRejectedAssertion
// otherwise) with the real cause logged server-side only.
func (r *Reconciler) Reconcile(ctx context.Context, assertion *Assertion) (*User, []string, error) {
	if assertion == nil || (assertion.Subject == "" && assertion.Email == "") {
		return nil, nil, shared.ErrRejectedAssertion
	}

	var (
		resolved  *User
		newBadges []string
	)

	err := r.store.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		st := r.store.WithTx(tx)

		u, badges, err := r.resolve(ctx, st, assertion)
		if err != nil {
			return err
		}

		if err := r.maybePromote(ctx, st, u); err != nil {
			return err
		}

		resolved = u
		newBadges = badges
		return nil
	})
	if err != nil {
		if errors.Is(err, shared.ErrConflict) || errors.Is(err, gorm.ErrDuplicatedKey) {
			r.logger.Warn("reconciliation lost a uniqueness race", "provider", assertion.Provider, "error", err)
			return nil, nil, shared.ErrConflict
		}
		if errors.Is(err, shared.ErrRejectedAssertion) {
			return nil, nil, shared.ErrRejectedAssertion
		}
		r.logger.Error("reconciliation failed", "provider", assertion.Provider, "error", err)
		return nil, nil, shared.ErrRejectedAssertion
	}

	return resolved, newBadges, nil
}

func (r *Reconciler) resolve(ctx context.Context, st *Store, assertion *Assertion) (*User, []string, error) {
	if assertion.Subject != "" {
		u, err := st.GetByGoogleID(ctx, assertion.Subject)
		if err == nil {
			return u, nil, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, nil, err
		}
	}

	if assertion.Email != "" {
		u, err := st.GetByEmail(ctx, assertion.Email)
		if err == nil {
			return u, nil, r.link(ctx, st, u, assertion)
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, nil, err
		}
	}

	return r.create(ctx, st, assertion)
}

// link attaches the provider id to an existing email-matched account. The
// assertion's avatar is adopted only when the account has none of its own.
func (r *Reconciler) link(ctx context.Context, st *Store, u *User, assertion *Assertion) error {
	if assertion.Subject != "" {
		sub := assertion.Subject
		u.GoogleID = &sub
	}
	if u.Avatar.IsZero() && assertion.AvatarURL != "" {
		u.Avatar = shared.ExternalURL(assertion.AvatarURL)
	}
	return st.Save(ctx, u)
}

func (r *Reconciler) create(ctx context.Context, st *Store, assertion *Assertion) (*User, []string, error) {
	// A subject-only assertion can resolve an already-linked account, but a
	// new account needs an email: the empty string would collide on the
	// unique email index as soon as a second one is created.
	if assertion.Email == "" {
		return nil, nil, fmt.Errorf("%w: no email for a new account", shared.ErrRejectedAssertion)
	}

	username, err := r.synthesizeUsername(ctx, st, assertion)
	if err != nil {
		return nil, nil, err
	}

	u := &User{
		Username: username,
		Email:    assertion.Email,
		Role:     shared.RoleReader,
		Avatar:   shared.ExternalURL(assertion.AvatarURL),
		Streak:   1,
	}
	if assertion.Subject != "" {
		sub := assertion.Subject
		u.GoogleID = &sub
	}

	if err := st.Create(ctx, u); err != nil {
		return nil, nil, err
	}

	points, badges, err := r.awarder.Award(ctx, st.DB(), u.ID, registrationBonus)
	if err != nil {
		return nil, nil, err
	}
	u.Points = points

	r.logger.Info("created account from federated login", "user_id", u.ID, "username", username)
	return u, badges, nil
}

// maybePromote grants admin rights to the pinned operator email, or to
// anyone when no admin exists yet. It never demotes and re-running on an
// admin is a no-op.
func (r *Reconciler) maybePromote(ctx context.Context, st *Store, u *User) error {
	if u.IsAdmin {
		return nil
	}

	pinned := r.adminEmail != "" && strings.EqualFold(u.Email, r.adminEmail)
	if !pinned {
		admins, err := st.CountAdmins(ctx)
		if err != nil {
			return err
		}
		if admins > 0 {
			return nil
		}
	}

	u.IsAdmin = true
	u.Role = shared.RoleAdmin
	if err := st.Save(ctx, u); err != nil {
		return err
	}
	r.logger.Info("promoted user to admin", "user_id", u.ID, "pinned_email", pinned)
	return nil
}

// synthesizeUsername slugifies the display name (falling back to the email
// local part), truncates it, and appends an incrementing numeric suffix
// until the result is free: name, name1, name2, ...
func (r *Reconciler) synthesizeUsername(ctx context.Context, st *Store, assertion *Assertion) (string, error) {
	base := assertion.Name
	if base == "" {
		base, _, _ = strings.Cut(assertion.Email, "@")
	}

	base = strings.ReplaceAll(slug.Make(base), "-", "_")
	if base == "" {
		base = "user"
	}
	if len(base) > maxUsernameLen {
		base = base[:maxUsernameLen]
	}

	candidate := base
	for i := 1; ; i++ {
		taken, err := st.UsernameExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
}
