package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"bocal_back_end/internal/models"
	"bocal_back_end/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FeedbackHandler struct {
	Feedback store.FeedbackStore
}

// List retourne les retours déjà envoyés par l'utilisateur.
func (h *FeedbackHandler) List(c *gin.Context) {
	userID := c.GetString("user_id")

	feedbacks, err := h.Feedback.ByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la lecture des retours"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"feedbacks": feedbacks, "count": len(feedbacks)})
}

type submitFeedbackInput struct {
	Content string `json:"content" binding:"required"`
}

// Submit enregistre un retour libre. Append-only : jamais modifié.
func (h *FeedbackHandler) Submit(c *gin.Context) {
	userID := c.GetString("user_id")

	var input submitFeedbackInput
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Contenu requis"})
		return
	}

	f := models.Feedback{
		ID:        uuid.NewString(),
		UserID:    userID,
		Content:   strings.TrimSpace(input.Content),
		CreatedAt: time.Now().UTC(),
	}

	if err := h.Feedback.Append(c.Request.Context(), f); err != nil {
		log.Println("❌ Erreur enregistrement feedback:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de l'enregistrement du retour"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Merci pour votre retour !", "feedback": f})
}
