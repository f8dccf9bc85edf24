package cache

import (
	"Shopcore/config"
	"Shopcore/pkg/jsonutil"
	"Shopcore/types"
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// CartStorage 购物车视图缓存，只做读加速，数据库才是准绳
type CartStorage struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewCartStorage(rds *redis.Client, conf *config.Config) *CartStorage {
	return &CartStorage{redis: rds, ttl: conf.Cart.TTL()}
}

// Get 未命中返回 nil, nil
func (s *CartStorage) Get(ctx context.Context, owner types.Owner) (*types.Cart, error) {
	val, err := s.redis.Get(ctx, owner.CacheKey()).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	cart := &types.Cart{}
	if err := jsonutil.Decode(val, cart); err != nil {
		// 脏数据直接删掉，按未命中处理
		s.redis.Del(ctx, owner.CacheKey())
		return nil, nil
	}
	return cart, nil
}

func (s *CartStorage) Set(ctx context.Context, owner types.Owner, cart *types.Cart) error {
	val, err := jsonutil.Encode(cart)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, owner.CacheKey(), val, s.ttl).Err()
}

// SetIfAbsent 键已存在时不覆盖，返回是否写入
func (s *CartStorage) SetIfAbsent(ctx context.Context, owner types.Owner, cart *types.Cart) (bool, error) {
	val, err := jsonutil.Encode(cart)
	if err != nil {
		return false, err
	}
	return s.redis.SetNX(ctx, owner.CacheKey(), val, s.ttl).Result()
}

// Del 批量失效
func (s *CartStorage) Del(ctx context.Context, owners ...types.Owner) error {
	if len(owners) == 0 {
		return nil
	}
	keys := make([]string, 0, len(owners))
	for _, o := range owners {
		keys = append(keys, o.CacheKey())
	}
	return s.redis.Del(ctx, keys...).Err()
}

func (s *CartStorage) TTL() time.Duration {
	return s.ttl
}
