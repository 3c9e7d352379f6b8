package analytics

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const retention = 30 * 24 * time.Hour

// Store keeps per-day page-view counters and unique-visitor sets in redis.
type Store struct {
	redis *redis.Client
}

func NewStore(redisClient *redis.Client) *Store {
	return &Store{redis: redisClient}
}

func dayKey(date string) string {
	return "analytics:" + date
}

func visitorsKey(date string) string {
	return "analytics:" + date + ":visitors"
}

// RecordPageView counts one page view for today and, when the visitor has
// not been seen today, one unique visitor. visitorID is any stable
// per-client token (the client IP works well enough here).
func (s *Store) RecordPageView(ctx context.Context, visitorID string) error {
	date := time.Now().UTC().Format("2006-01-02")

	pipe := s.redis.Pipeline()
	pipe.HIncrBy(ctx, dayKey(date), "page_views", 1)
	pipe.Expire(ctx, dayKey(date), retention)
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}

	if visitorID == "" {
		return nil
	}

	added, err := s.redis.SAdd(ctx, visitorsKey(date), visitorID).Result()
	if err != nil {
		return err
	}
	s.redis.Expire(ctx, visitorsKey(date), retention)

	if added > 0 {
		return s.redis.HIncrBy(ctx, dayKey(date), "unique_visitors", 1).Err()
	}
	return nil
}

type DayStats struct {
	Date           string
	PageViews      int64
	UniqueVisitors int64
}

// Stats returns per-day counters for the last `days` days, oldest first.
// Days with no traffic are included with zero counts.
func (s *Store) Stats(ctx context.Context, days int) ([]DayStats, error) {
	now := time.Now().UTC()
	stats := make([]DayStats, 0, days)

	for i := days - 1; i >= 0; i-- {
		date := now.AddDate(0, 0, -i).Format("2006-01-02")

		data, err := s.redis.HGetAll(ctx, dayKey(date)).Result()
		if err != nil {
			return nil, err
		}

		day := DayStats{Date: date}
		if v, ok := data["page_views"]; ok {
			day.PageViews, _ = strconv.ParseInt(v, 10, 64)
		}
		if v, ok := data["unique_visitors"]; ok {
			day.UniqueVisitors, _ = strconv.ParseInt(v, 10, 64)
		}
		stats = append(stats, day)
	}

	return stats, nil
}
