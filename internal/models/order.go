package models

import "time"

// Statuts d'une commande. "pending" = écrite mais panier pas encore vidé,
// "confirmed" = cycle de checkout terminé. Une commande pending est déjà
// un achat durable — le balayage de reprise la confirme.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
)

type Order struct {
	ID        string      `json:"order_id"`
	UserID    string      `json:"user_id"`
	Address   string      `json:"address"`
	Total     float64     `json:"total"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	Items     []OrderItem `json:"items,omitempty"`
}

// OrderItem fige le prix unitaire au moment de l'achat : les modifications
// ultérieures du produit ne changent jamais une commande passée.
type OrderItem struct {
	OrderID   string  `json:"order_id"`
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}
