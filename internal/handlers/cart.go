package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"bocal_back_end/internal/models"
	"bocal_back_end/internal/order"
	"bocal_back_end/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CartHandler struct {
	Catalog store.CatalogStore
	Carts   store.CartStore
	Engine  *order.Engine
}

type addToCartInput struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Add ajoute un produit au panier. Le produit est résolu par id, sinon par
// nom ; un nom inconnu accompagné d'un prix crée le produit au catalogue
// (stock par défaut 100). Ajouter un produit déjà présent cumule la quantité.
func (h *CartHandler) Add(c *gin.Context) {
	userID := c.GetString("user_id")

	var input addToCartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if input.ProductID == "" && input.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id ou name requis"})
		return
	}
	if input.Quantity <= 0 {
		input.Quantity = 1
	}

	ctx := c.Request.Context()

	var product models.Product
	var err error
	if input.ProductID != "" {
		product, err = h.Catalog.GetByID(ctx, input.ProductID)
	} else {
		product, err = h.Catalog.GetByName(ctx, input.Name)
	}
	if errors.Is(err, store.ErrNotFound) && input.ProductID == "" && input.Price > 0 {
		// Produit inconnu mais prix fourni : création à la volée
		product = models.Product{
			ID:        uuid.NewString(),
			Name:      input.Name,
			Price:     input.Price,
			Stock:     100,
			CreatedAt: time.Now().UTC(),
		}
		if err = h.Catalog.Create(ctx, product); err == nil {
			log.Println("✅ Produit créé à la volée :", product.Name)
		}
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la lecture du produit"})
		return
	}

	cart, err := h.Carts.Get(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la lecture du panier"})
		return
	}

	found := false
	for i := range cart {
		if cart[i].ProductID == product.ID {
			cart[i].Quantity += input.Quantity
			found = true
			break
		}
	}
	if !found {
		cart = append(cart, models.CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  input.Quantity,
			ImageURL:  product.ImageURL,
		})
	}

	if err := h.Carts.Put(ctx, userID, cart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la mise à jour du panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Produit ajouté au panier",
		"items":   cart,
		"total":   order.Total(cart),
	})
}

type removeFromCartInput struct {
	ProductID string `json:"product_id" binding:"required"`
}

// Remove retire un produit du panier. Retirer un produit absent est un no-op
// signalé, pas une erreur.
func (h *CartHandler) Remove(c *gin.Context) {
	userID := c.GetString("user_id")

	var input removeFromCartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id requis"})
		return
	}

	ctx := c.Request.Context()
	cart, err := h.Carts.Get(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la lecture du panier"})
		return
	}

	removed := false
	for _, item := range cart {
		if item.ProductID == input.ProductID {
			removed = true
			break
		}
	}

	if removed {
		if err := h.Carts.RemoveProducts(ctx, userID, []string{input.ProductID}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la mise à jour du panier"})
			return
		}
		cart, _ = h.Carts.Get(ctx, userID)
	}

	message := "Produit retiré du panier"
	if !removed {
		message = "Produit absent du panier"
	}
	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"removed": removed,
		"items":   cart,
		"total":   order.Total(cart),
	})
}

// View retourne le panier réconcilié avec le catalogue : noms et prix
// actuels, produits disparus écartés et signalés.
func (h *CartHandler) View(c *gin.Context) {
	userID := c.GetString("user_id")
	ctx := c.Request.Context()

	cart, err := h.Carts.Get(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la lecture du panier"})
		return
	}

	valid, dropped, err := h.Engine.Reconcile(ctx, cart)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la réconciliation du panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":   valid,
		"total":   order.Total(valid),
		"count":   len(valid),
		"dropped": dropped,
	})
}
