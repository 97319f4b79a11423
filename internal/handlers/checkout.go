package handlers

import (
	"errors"
	"log"
	"net/http"

	"bocal_back_end/internal/order"
	"bocal_back_end/internal/store"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	Engine *order.Engine
	Carts  store.CartStore
}

// Entry — récapitulatif pré-checkout : panier réconcilié et total dû.
func (h *CheckoutHandler) Entry(c *gin.Context) {
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
		"dropped": dropped,
	})
}

type processCheckoutInput struct {
	Address string `json:"address"`
}

// Process convertit le panier en commande. Les rejets métier (adresse
// vide, panier vide) laissent le panier intact ; un double-submit pendant
// un checkout en cours répond 409.
func (h *CheckoutHandler) Process(c *gin.Context) {
	userID := c.GetString("user_id")
	userEmail := c.GetString("email")

	var input processCheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	o, dropped, err := h.Engine.Checkout(c.Request.Context(), userID, userEmail, input.Address)
	switch {
	case errors.Is(err, order.ErrAddressRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Adresse de livraison requise"})
		return
	case errors.Is(err, order.ErrCartEmpty):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Panier vide", "dropped": dropped})
		return
	case errors.Is(err, order.ErrCheckoutInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": "Un checkout est déjà en cours"})
		return
	case err != nil:
		log.Println("❌ Erreur checkout:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors du checkout"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Commande enregistrée",
		"order":    o,
		"dropped":  dropped,
		"redirect": "/payment-success/" + o.ID,
	})
}
