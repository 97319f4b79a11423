package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"bocal_back_end/internal/database"
	"bocal_back_end/internal/models"
	"bocal_back_end/internal/store"
	"bocal_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type AuthHandler struct {
	Users store.UserStore
}

type registerInput struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
}

// Register crée un compte. L'email est unique ; le rôle est ramené à
// l'énumération fermée (customer par défaut).
func (h *AuthHandler) Register(c *gin.Context) {
	var input registerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors du hash du mot de passe"})
		return
	}

	user := models.User{
		ID:        uuid.NewString(),
		Username:  input.Username,
		Email:     input.Email,
		Password:  hash,
		Role:      models.NormalizeRole(input.Role),
		CreatedAt: time.Now().UTC(),
	}

	if err := h.Users.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Un compte avec cet email existe déjà"})
			return
		}
		log.Println("❌ Erreur création utilisateur:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la création du compte"})
		return
	}

	log.Println("✅ Nouveau compte créé :", user.Email)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Compte créé avec succès",
		"user":    user,
	})
}

type loginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login vérifie les identifiants et émet un JWT. Même réponse 401 que
// l'email soit inconnu ou le mot de passe faux.
func (h *AuthHandler) Login(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email et mot de passe requis"})
		return
	}

	user, err := h.Users.GetByEmail(c.Request.Context(), input.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	ok, err := utils.VerifyPassword(input.Password, user.Password)
	if err != nil || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la génération du token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Connexion réussie",
		"token":   token,
		"user":    user,
	})
}

// Logout révoque le token courant jusqu'à son expiration naturelle
// (denylist Redis).
func (h *AuthHandler) Logout(c *gin.Context) {
	tokenString := c.GetString("token")
	if tokenString == "" || database.Redis == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Déconnexion réussie"})
		return
	}

	ttl := 24 * time.Hour
	if token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{}); err == nil {
		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if exp, ok := claims["exp"].(float64); ok {
				if remaining := time.Until(time.Unix(int64(exp), 0)); remaining > 0 {
					ttl = remaining
				}
			}
		}
	}

	if err := database.Redis.Set(context.Background(), "jwt_denylist:"+tokenString, "1", ttl).Err(); err != nil {
		log.Println("⚠️ Révocation du token échouée:", err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Déconnexion réussie"})
}

// Me retourne le profil de l'utilisateur authentifié.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.Users.GetByID(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
