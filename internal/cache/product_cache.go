// Package cache met les lectures chaudes du catalogue en cache Redis devant
// ScyllaDB. Best-effort : sans Redis, tout passe en lecture directe.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"bocal_back_end/internal/database"
	"bocal_back_end/internal/models"
)

const ProductCacheTTL = 10 * time.Minute

// GetProduct retourne le produit en cache, ou false s'il faut lire la base.
func GetProduct(ctx context.Context, productID string) (models.Product, bool) {
	if database.Redis == nil {
		return models.Product{}, false
	}

	data, err := database.Redis.Get(ctx, "product:"+productID).Result()
	if err != nil {
		return models.Product{}, false
	}

	var p models.Product
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return models.Product{}, false
	}
	return p, true
}

// SetProduct met un produit en cache après lecture base.
func SetProduct(ctx context.Context, p models.Product) {
	if database.Redis == nil {
		return
	}
	if data, err := json.Marshal(p); err == nil {
		database.Redis.Set(ctx, "product:"+p.ID, data, ProductCacheTTL)
	}
}

// InvalidateProduct — à appeler sur toute écriture catalogue.
func InvalidateProduct(ctx context.Context, productID string) {
	if database.Redis == nil {
		return
	}
	database.Redis.Del(ctx, "product:"+productID)
}
