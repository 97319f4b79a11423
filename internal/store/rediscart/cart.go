// Package rediscart stocke le panier dans Redis : un blob JSON par
// utilisateur sous cart:<user_id> (TTL 30 jours). Chaque mutation publie un
// événement sur le canal cart:<user_id> pour la synchro WebSocket.
package rediscart

import (
	"context"
	"encoding/json"
	"time"

	"bocal_back_end/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	cartTTL = 30 * 24 * time.Hour
	lockTTL = 30 * time.Second
)

type Store struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func cartKey(userID string) string { return "cart:" + userID }

func (s *Store) Get(ctx context.Context, userID string) ([]models.CartItem, error) {
	data, err := s.rdb.Get(ctx, cartKey(userID)).Result()
	if err == redis.Nil || data == "" {
		return []models.CartItem{}, nil // panier vide
	}
	if err != nil {
		return nil, err
	}

	var cart []models.CartItem
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *Store) Put(ctx context.Context, userID string, items []models.CartItem) error {
	if len(items) == 0 {
		return s.Clear(ctx, userID)
	}

	jsonData, err := json.Marshal(items)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, cartKey(userID), jsonData, cartTTL).Err(); err != nil {
		return err
	}
	s.rdb.Publish(ctx, cartKey(userID), "updated")
	return nil
}

func (s *Store) RemoveProducts(ctx context.Context, userID string, productIDs []string) error {
	cart, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}

	drop := make(map[string]bool, len(productIDs))
	for _, id := range productIDs {
		drop[id] = true
	}

	kept := cart[:0]
	for _, item := range cart {
		if !drop[item.ProductID] {
			kept = append(kept, item)
		}
	}
	return s.Put(ctx, userID, kept)
}

func (s *Store) Clear(ctx context.Context, userID string) error {
	if err := s.rdb.Del(ctx, cartKey(userID)).Err(); err != nil {
		return err
	}
	s.rdb.Publish(ctx, cartKey(userID), "cleared")
	return nil
}

// Locker sérialise les checkouts d'un même utilisateur via SET NX.
// Le TTL borne la durée du verrou si le process meurt en plein checkout.
type Locker struct {
	rdb *redis.Client
}

func NewLocker(rdb *redis.Client) *Locker {
	return &Locker{rdb: rdb}
}

func (l *Locker) Acquire(ctx context.Context, userID string) (bool, error) {
	return l.rdb.SetNX(ctx, "checkout_lock:"+userID, "1", lockTTL).Result()
}

func (l *Locker) Release(ctx context.Context, userID string) {
	l.rdb.Del(ctx, "checkout_lock:"+userID)
}
