package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Landing — page d'accueil de la boutique.
func Landing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "Bocal",
		"tagline": "Conserves et bocaux artisanaux, livrés chez vous",
		"links": gin.H{
			"products": "/products",
			"services": "/services",
			"register": "/register",
			"login":    "/login",
		},
	})
}

// Services — présentation statique de l'offre.
func Services(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"services": []gin.H{
			{"name": "Vente en ligne", "description": "Tout le catalogue de bocaux, commandés en quelques clics"},
			{"name": "Livraison à domicile", "description": "Expédition à l'adresse de votre choix"},
			{"name": "Suivi de commande", "description": "Statut et récapitulatif accessibles à tout moment"},
		},
	})
}
