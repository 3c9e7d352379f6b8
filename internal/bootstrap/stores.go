package bootstrap

import (
	"github.com/eleven-am/blog-backend/internal/analytics"
	"github.com/eleven-am/blog-backend/internal/gamification"
	"github.com/eleven-am/blog-backend/internal/post"
	"github.com/eleven-am/blog-backend/internal/site"
	"github.com/eleven-am/blog-backend/internal/user"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func ProvideUserStore(db *gorm.DB) *user.Store {
	return user.NewStore(db)
}

func ProvidePostStore(db *gorm.DB) *post.Store {
	return post.NewStore(db)
}

func ProvideGamificationStore(db *gorm.DB) *gamification.Store {
	return gamification.NewStore(db)
}

func ProvideSiteStore(db *gorm.DB) *site.Store {
	return site.NewStore(db)
}

func ProvideAnalyticsStore(redisClient *redis.Client) *analytics.Store {
	return analytics.NewStore(redisClient)
}

func RunMigrations(userStore *user.Store, postStore *post.Store, gamStore *gamification.Store, siteStore *site.Store) error {
	if err := userStore.Migrate(); err != nil {
		return err
	}
	if err := postStore.Migrate(); err != nil {
		return err
	}
	if err := gamStore.Migrate(); err != nil {
		return err
	}
	return siteStore.Migrate()
}

var StoresModule = fx.Options(
	fx.Provide(
		ProvideUserStore,
		ProvidePostStore,
		ProvideGamificationStore,
		ProvideSiteStore,
		ProvideAnalyticsStore,
	),
	fx.Invoke(RunMigrations),
)
