package handlers

import (
	"log"
	"net/http"

	"bocal_back_end/internal/models"
	"bocal_back_end/internal/store"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	Users    store.UserStore
	Catalog  store.CatalogStore
	Orders   store.OrderStore
	Ratings  store.RatingStore
	Feedback store.FeedbackStore
}

// Show sert le tableau de bord selon le rôle : un client voit ses commandes
// et ses retours, un admin voit l'agrégat boutique complet.
func (h *DashboardHandler) Show(c *gin.Context) {
	if c.GetString("role") == models.RoleAdmin {
		h.admin(c)
		return
	}
	h.customer(c)
}

func (h *DashboardHandler) customer(c *gin.Context) {
	userID := c.GetString("user_id")
	ctx := c.Request.Context()

	orders, err := h.Orders.ListByUser(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la lecture des commandes"})
		return
	}
	feedbacks, err := h.Feedback.ByUser(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la lecture des retours"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"role":      models.RoleCustomer,
		"orders":    orders,
		"feedbacks": feedbacks,
	})
}

// admin agrège toute la boutique : comptes, catalogue avec note moyenne,
// commandes avec leur note, et tous les retours clients.
func (h *DashboardHandler) admin(c *gin.Context) {
	ctx := c.Request.Context()

	customers, err := h.Users.ListByRole(ctx, models.RoleCustomer)
	if err != nil {
		log.Println("❌ Dashboard : lecture des clients échouée:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la lecture des comptes"})
		return
	}
	admins, err := h.Users.ListByRole(ctx, models.RoleAdmin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la lecture des comptes"})
		return
	}

	products, err := h.Catalog.List(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la lecture du catalogue"})
		return
	}
	productRows := make([]gin.H, 0, len(products))
	for _, p := range products {
		row := gin.H{"product": p}
		if ratings, err := h.Ratings.ByProduct(ctx, p.ID); err == nil && len(ratings) > 0 {
			sum := 0
			for _, r := range ratings {
				sum += r.Stars
			}
			row["average_rating"] = float64(sum) / float64(len(ratings))
			row["rating_count"] = len(ratings)
		}
		productRows = append(productRows, row)
	}

	orders, err := h.Orders.ListAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la lecture des commandes"})
		return
	}
	orderRows := make([]gin.H, 0, len(orders))
	var revenue float64
	for _, o := range orders {
		row := gin.H{"order": o}
		if ratings, err := h.Ratings.ByOrder(ctx, o.ID); err == nil && len(ratings) > 0 {
			// Une note par ligne de commande, toutes identiques
			row["stars"] = ratings[0].Stars
		}
		orderRows = append(orderRows, row)
		revenue += o.Total
	}

	feedbacks, err := h.Feedback.ListAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la lecture des retours"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"role":      models.RoleAdmin,
		"customers": customers,
		"admins":    admins,
		"products":  productRows,
		"orders":    orderRows,
		"feedbacks": feedbacks,
		"stats": gin.H{
			"customer_count": len(customers),
			"product_count":  len(products),
			"order_count":    len(orders),
			"revenue":        revenue,
		},
	})
}
