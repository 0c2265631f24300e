package caching

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pabloubeiracarramal/factor-back/internal/models"
)

// StatsTTL bounds how stale a cached dashboard can get between the
// write-triggered invalidations.
const StatsTTL = 5 * time.Minute

type CacheService interface {
	GetDashboardStats(ctx context.Context, companyID uuid.UUID) (*models.DashboardStats, error)
	SetDashboardStats(ctx context.Context, companyID uuid.UUID, stats *models.DashboardStats, ttl time.Duration) error
	InvalidateDashboardStats(ctx context.Context, companyID uuid.UUID) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsedAddr = strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", err, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func statsKey(companyID uuid.UUID) string {
	return "dashboard:stats:" + companyID.String()
}

func (s *redisCacheService) GetDashboardStats(ctx context.Context, companyID uuid.UUID) (*models.DashboardStats, error) {
	data, err := s.client.Get(ctx, statsKey(companyID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	stats := &models.DashboardStats{}
	if err := json.Unmarshal([]byte(data), stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *redisCacheService) SetDashboardStats(ctx context.Context, companyID uuid.UUID, stats *models.DashboardStats, ttl time.Duration) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, statsKey(companyID), data, ttl).Err()
}

func (s *redisCacheService) InvalidateDashboardStats(ctx context.Context, companyID uuid.UUID) error {
	return s.client.Del(ctx, statsKey(companyID)).Err()
}
