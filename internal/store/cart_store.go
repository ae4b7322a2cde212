package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/labcare/booking-gateway/internal/model"
)

// CartStore holds each user's selection of tests and packages. The booking
// flow treats the cart as read-only input; the only mutation it ever asks
// for is Clear, and only after a successful submission.
type CartStore interface {
	// Items returns the user's cart, empty when none exists.
	Items(ctx context.Context, userID uint64) ([]model.CartItem, error)
	// Add appends an item. Adding an item whose ID is already present is a
	// no-op, matching how the clients guard against duplicates.
	Add(ctx context.Context, userID uint64, item model.CartItem) error
	// Remove drops the item with the given ID. Removing an absent item is
	// not an error.
	Remove(ctx context.Context, userID uint64, itemID int) error
	// Clear empties the cart.
	Clear(ctx context.Context, userID uint64) error
}

// RedisCartStore stores the whole cart as one JSON array under
// "cart:<userID>". Carts are small (a handful of tests per booking), so a
// single blob read/write keeps the operations atomic enough without Lua.
type RedisCartStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCartStore returns a cart store. ttl controls how long an
// untouched cart survives; zero means seven days.
func NewRedisCartStore(rdb *redis.Client, ttl time.Duration) *RedisCartStore {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &RedisCartStore{rdb: rdb, ttl: ttl}
}

func cartKey(userID uint64) string { return "cart:" + strconv.FormatUint(userID, 10) }

// Items loads and decodes the cart blob.
func (s *RedisCartStore) Items(ctx context.Context, userID uint64) ([]model.CartItem, error) {
	data, err := s.rdb.Get(ctx, cartKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []model.CartItem{}, nil
		}
		return nil, fmt.Errorf("load cart: %w", err)
	}
	var items []model.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return items, nil
}

// Add appends the item unless an item with the same ID is already present.
func (s *RedisCartStore) Add(ctx context.Context, userID uint64, item model.CartItem) error {
	items, err := s.Items(ctx, userID)
	if err != nil {
		return err
	}
	for _, it := range items {
		if it.ID == item.ID && it.Type == item.Type {
			return nil
		}
	}
	return s.save(ctx, userID, append(items, item))
}

// Remove filters out the item with the given ID.
func (s *RedisCartStore) Remove(ctx context.Context, userID uint64, itemID int) error {
	items, err := s.Items(ctx, userID)
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, it := range items {
		if it.ID != itemID {
			kept = append(kept, it)
		}
	}
	return s.save(ctx, userID, kept)
}

// Clear deletes the cart key outright.
func (s *RedisCartStore) Clear(ctx context.Context, userID uint64) error {
	if err := s.rdb.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (s *RedisCartStore) save(ctx context.Context, userID uint64, items []model.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.rdb.Set(ctx, cartKey(userID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("store cart: %w", err)
	}
	return nil
}
