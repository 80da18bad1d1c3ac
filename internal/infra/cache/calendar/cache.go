package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/pkg/dbmetrics"
)

// Результаты обращения к кэшу для метрик
const (
	ResultHit    = "hit"
	ResultMiss   = "miss"
	ResultBypass = "bypass"
	ResultError  = "error"
)

// Cache read-through кэш снимков правил салона в redis.
// Внутри транзакции кэш не используется, правила читаются из БД
type Cache struct {
	source  RulesSource
	rdb     *redis.Client
	ttl     time.Duration
	metrics MetricsRecorder
	logger  Logger
}

// NewCache создает кэш правил
func NewCache(source RulesSource, rdb *redis.Client, ttl time.Duration, metrics MetricsRecorder, logger Logger) *Cache {
	return &Cache{
		source:  source,
		rdb:     rdb,
		ttl:     ttl,
		metrics: metrics,
		logger:  logger,
	}
}

// Key ключ снимка правил салона
func Key(shopID int64) string {
	return fmt.Sprintf("calendar:rules:%d", shopID)
}

// LoadRules возвращает снимок правил из кэша или из источника
func (c *Cache) LoadRules(ctx context.Context, shopID int64) (*domain.CalendarRules, error) {
	if dbmetrics.IsInTransaction(ctx) {
		c.metrics.ObserveRulesCache(ResultBypass)
		return c.source.LoadRules(ctx, shopID)
	}

	key := Key(shopID)
	data, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var rules domain.CalendarRules
		if err := json.Unmarshal(data, &rules); err == nil {
			c.metrics.ObserveRulesCache(ResultHit)
			return &rules, nil
		}
		c.logger.Warn("RulesCache: corrupted snapshot for shop=%d, reloading", shopID)
	case errors.Is(err, redis.Nil):
	default:
		c.metrics.ObserveRulesCache(ResultError)
		c.logger.Warn("RulesCache: redis get failed for shop=%d: %v", shopID, err)
		return c.source.LoadRules(ctx, shopID)
	}

	c.metrics.ObserveRulesCache(ResultMiss)
	rules, err := c.source.LoadRules(ctx, shopID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(rules)
	if err != nil {
		c.logger.Warn("RulesCache: failed to marshal rules for shop=%d: %v", shopID, err)
		return rules, nil
	}
	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("RulesCache: redis set failed for shop=%d: %v", shopID, err)
	}
	return rules, nil
}

// Invalidate удаляет снимок правил салона
func (c *Cache) Invalidate(ctx context.Context, shopID int64) error {
	if err := c.rdb.Del(ctx, Key(shopID)).Err(); err != nil {
		return fmt.Errorf("%w: shop=%d: %v", ErrInvalidate, shopID, err)
	}
	return nil
}
