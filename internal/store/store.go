// Package store définit le contrat de persistance par entité :
// get-by-id, query-by-owner, put, delete. Les implémentations vivent dans
// les sous-packages (scylla, rediscart, memory).
package store

import (
	"context"
	"errors"
	"time"

	"bocal_back_end/internal/models"
)

var (
	// ErrNotFound : l'entité référencée n'existe pas (ou plus).
	ErrNotFound = errors.New("introuvable")
	// ErrConflict : violation d'unicité (email déjà enregistré).
	ErrConflict = errors.New("conflit")
)

type UserStore interface {
	Create(ctx context.Context, u models.User) error
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	ListByRole(ctx context.Context, role string) ([]models.User, error)
}

type CatalogStore interface {
	Create(ctx context.Context, p models.Product) error
	GetByID(ctx context.Context, id string) (models.Product, error)
	GetByName(ctx context.Context, name string) (models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	SetImageURL(ctx context.Context, id, url string) error
	Delete(ctx context.Context, id string) error
}

// CartStore : un panier par utilisateur, une entrée par produit.
type CartStore interface {
	Get(ctx context.Context, userID string) ([]models.CartItem, error)
	Put(ctx context.Context, userID string, items []models.CartItem) error
	// RemoveProducts vide le panier des produits donnés. Idempotent :
	// un produit déjà absent est ignoré.
	RemoveProducts(ctx context.Context, userID string, productIDs []string) error
	Clear(ctx context.Context, userID string) error
}

type OrderStore interface {
	// CreatePending écrit la commande (statut pending), toutes ses lignes
	// et l'index par utilisateur en une seule écriture atomique.
	CreatePending(ctx context.Context, o models.Order, items []models.OrderItem) error
	Confirm(ctx context.Context, o models.Order) error
	GetByID(ctx context.Context, id string) (models.Order, error)
	ItemsByOrder(ctx context.Context, orderID string) ([]models.OrderItem, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	// ListPending retourne les commandes restées pending avant la date
	// donnée — matière du balayage de reprise.
	ListPending(ctx context.Context, before time.Time) ([]models.Order, error)
}

type RatingStore interface {
	Append(ctx context.Context, ratings []models.Rating) error
	ByOrder(ctx context.Context, orderID string) ([]models.Rating, error)
	ByProduct(ctx context.Context, productID string) ([]models.Rating, error)
}

type FeedbackStore interface {
	Append(ctx context.Context, f models.Feedback) error
	ByUser(ctx context.Context, userID string) ([]models.Feedback, error)
	ListAll(ctx context.Context) ([]models.Feedback, error)
}

// CheckoutLocker sérialise les checkouts d'un même utilisateur.
type CheckoutLocker interface {
	// Acquire retourne false si un checkout est déjà en cours.
	Acquire(ctx context.Context, userID string) (bool, error)
	Release(ctx context.Context, userID string)
}
