package models

import "time"

// Rating est append-only : jamais modifié, jamais supprimé.
type Rating struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	Stars     int       `json:"stars"`
	CreatedAt time.Time `json:"created_at"`
}
