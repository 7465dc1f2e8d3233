package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bbaku36/TUTUYU-Frontend/internal/cargo/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const statsCacheKey = "cargo:stats:summary"

// StatsSummary is the aggregate view over all shipments.
type StatsSummary struct {
	TotalShipments int64            `json:"total_shipments"`
	TotalPrice     int64            `json:"total_price"`
	TotalBalance   int64            `json:"total_balance"`
	ByStatus       map[string]int64 `json:"by_status"`
}

// StatsService computes the summary, with a short-lived redis cache when a
// client is configured. Cache failures fall back to the database silently.
type StatsService struct {
	shipments *repository.ShipmentRepository
	cache     *redis.Client
	ttl       time.Duration
	logger    *zap.Logger
}

func NewStatsService(shipments *repository.ShipmentRepository, cache *redis.Client, ttl time.Duration, logger *zap.Logger) *StatsService {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &StatsService{shipments: shipments, cache: cache, ttl: ttl, logger: logger}
}

func (s *StatsService) Summary(ctx context.Context) (*StatsSummary, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, statsCacheKey).Bytes(); err == nil {
			var cached StatsSummary
			if json.Unmarshal(raw, &cached) == nil {
				return &cached, nil
			}
		}
	}

	totals, byStatus, err := s.shipments.StatsSummary(ctx)
	if err != nil {
		return nil, err
	}
	summary := &StatsSummary{
		TotalShipments: totals.Count,
		TotalPrice:     totals.Price,
		TotalBalance:   totals.Balance,
		ByStatus:       byStatus,
	}

	if s.cache != nil {
		if raw, err := json.Marshal(summary); err == nil {
			if err := s.cache.Set(ctx, statsCacheKey, raw, s.ttl).Err(); err != nil {
				s.logger.Debug("stats cache write failed", zap.Error(err))
			}
		}
	}
	return summary, nil
}
