package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"bocal_back_end/internal/models"
	"bocal_back_end/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RatingHandler struct {
	Orders  store.OrderStore
	Ratings store.RatingStore
}

type submitRatingInput struct {
	// Accepté en nombre ou en chaîne ("4"), les frontends font les deux.
	Stars json.Number `json:"stars" binding:"required"`
}

// Submit note une commande : la note est éclatée en une entrée par ligne de
// commande, pour alimenter la moyenne de chaque produit acheté.
func (h *RatingHandler) Submit(c *gin.Context) {
	orderID := c.Param("order_id")
	userID := c.GetString("user_id")
	ctx := c.Request.Context()

	var input submitRatingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Note requise (stars)"})
		return
	}

	stars, err := strconv.Atoi(input.Stars.String())
	if err != nil || stars < 1 || stars > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La note doit être un entier entre 1 et 5"})
		return
	}

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

	now := time.Now().UTC()
	ratings := make([]models.Rating, 0, len(items))
	for _, item := range items {
		ratings = append(ratings, models.Rating{
			ID:        uuid.NewString(),
			OrderID:   o.ID,
			ProductID: item.ProductID,
			UserID:    userID,
			Stars:     stars,
			CreatedAt: now,
		})
	}

	if err := h.Ratings.Append(ctx, ratings); err != nil {
		log.Println("❌ Erreur enregistrement des notes:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de l'enregistrement de la note"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Merci pour votre note !",
		"stars":   stars,
		"rated":   len(ratings),
	})
}
