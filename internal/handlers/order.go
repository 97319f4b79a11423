package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"bocal_back_end/internal/store"
	"bocal_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	Orders store.OrderStore
}

// PaymentSuccess — page de confirmation post-checkout, avec le QR code du
// lien de suivi.
func (h *OrderHandler) PaymentSuccess(c *gin.Context) {
	orderID := c.Param("order_id")
	ctx := c.Request.Context()

	o, err := h.Orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la lecture de la commande"})
		return
	}

	baseURL := os.Getenv("PUBLIC_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	trackURL := fmt.Sprintf("%s/track-order/%s", baseURL, o.ID)

	qr, err := utils.TrackingQR(trackURL)
	if err != nil {
		log.Println("⚠️ QR code non généré :", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Merci pour votre commande !",
		"order":     o,
		"track_url": trackURL,
		"track_qr":  qr,
	})
}

// Track retourne l'état et le récapitulatif complet d'une commande.
// Le lien de suivi est partageable : pas de contrôle de propriété.
func (h *OrderHandler) Track(c *gin.Context) {
	orderID := c.Param("order_id")
	ctx := c.Request.Context()

	o, err := h.Orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la lecture de la commande"})
		return
	}

	items, err := h.Orders.ItemsByOrder(ctx, orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la lecture des lignes"})
		return
	}
	o.Items = items

	c.JSON(http.StatusOK, gin.H{"order": o})
}

// MyOrders liste les commandes de l'utilisateur authentifié, de la plus
// récente à la plus ancienne.
func (h *OrderHandler) MyOrders(c *gin.Context) {
	userID := c.GetString("user_id")

	orders, err := h.Orders.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la lecture des commandes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
}
