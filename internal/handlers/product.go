package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"bocal_back_end/internal/models"
	"bocal_back_end/internal/services"
	"bocal_back_end/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductHandler struct {
	Catalog store.CatalogStore
	Ratings store.RatingStore
}

// List retourne tout le catalogue, avec la note moyenne de chaque produit.
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.Catalog.List(c.Request.Context())
	if err != nil {
		log.Println("❌ Erreur lecture catalogue:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la lecture du catalogue"})
		return
	}

	out := make([]gin.H, 0, len(products))
	for _, p := range products {
		entry := gin.H{
			"id":          p.ID,
			"name":        p.Name,
			"description": p.Description,
			"price":       p.Price,
			"category":    p.Category,
			"stock":       p.Stock,
			"image_url":   p.ImageURL,
		}
		if ratings, err := h.Ratings.ByProduct(c.Request.Context(), p.ID); err == nil && len(ratings) > 0 {
			sum := 0
			for _, r := range ratings {
				sum += r.Stars
			}
			entry["average_rating"] = float64(sum) / float64(len(ratings))
			entry["rating_count"] = len(ratings)
		}
		out = append(out, entry)
	}

	c.JSON(http.StatusOK, gin.H{"products": out, "count": len(out)})
}

type createProductInput struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
}

// Create ajoute un produit au catalogue (admin).
func (h *ProductHandler) Create(c *gin.Context) {
	var input createProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	product := models.Product{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		Stock:       input.Stock,
		CreatedAt:   time.Now().UTC(),
	}

	if err := h.Catalog.Create(c.Request.Context(), product); err != nil {
		log.Println("❌ Erreur création produit:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la création du produit"})
		return
	}

	log.Println("✅ Produit ajouté au catalogue :", product.Name)
	c.JSON(http.StatusCreated, gin.H{"message": "Produit créé", "product": product})
}

// UploadImage attache une image à un produit existant (admin, MinIO).
func (h *ProductHandler) UploadImage(c *gin.Context) {
	productID := c.Param("id")

	if _, err := h.Catalog.GetByID(c.Request.Context(), productID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la lecture du produit"})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier image requis (champ 'image')"})
		return
	}

	url, err := services.UploadProductImage(c.Request.Context(), productID, file)
	if err != nil {
		log.Println("❌ Erreur upload image:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de l'upload de l'image"})
		return
	}

	if err := h.Catalog.SetImageURL(c.Request.Context(), productID, url); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la mise à jour du produit"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Image enregistrée", "image_url": url})
}
