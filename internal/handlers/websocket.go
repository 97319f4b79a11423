package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"bocal_back_end/internal/database"
	"bocal_back_end/internal/models"
	"bocal_back_end/internal/notify"
	"bocal_back_end/internal/order"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Autoriser toutes les origines (à ajuster en production)
		return true
	},
}

// CartWebSocket pousse le panier à jour à chaque modification, via le canal
// Redis publié par le store panier. Un onglet qui ajoute un produit met
// à jour tous les autres.
func CartWebSocket(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}
	if database.Redis == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Synchronisation temps réel indisponible"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}
	defer conn.Close()

	ctx := context.Background()

	pubsub := database.Redis.Subscribe(ctx, "cart:"+userID)
	defer pubsub.Close()
	ch := pubsub.Channel()

	conn.WriteJSON(map[string]interface{}{
		"type":    "connected",
		"message": "Synchronisation panier activée",
	})

	for {
		select {
		case msg := <-ch:
			if msg.Payload != "updated" && msg.Payload != "cleared" {
				continue
			}

			data, err := database.Redis.Get(ctx, "cart:"+userID).Result()

			var response map[string]interface{}
			if err != nil || data == "" {
				response = map[string]interface{}{
					"type":  "cart_updated",
					"items": []interface{}{},
					"total": 0,
					"count": 0,
				}
			} else {
				var cart []models.CartItem
				json.Unmarshal([]byte(data), &cart)
				response = map[string]interface{}{
					"type":  "cart_updated",
					"items": cart,
					"total": order.Total(cart),
					"count": len(cart),
				}
			}

			if err := conn.WriteJSON(response); err != nil {
				log.Printf("❌ Erreur envoi WebSocket: %v", err)
				return
			}
		case <-time.After(30 * time.Second):
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// OrdersWebSocket branche un client admin sur le flux des commandes
// confirmées (diffusé par le hub au fil des checkouts).
func OrdersWebSocket(hub *notify.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("❌ Erreur upgrade WebSocket: %v", err)
			return
		}

		hub.Register(conn)
		defer func() {
			hub.Unregister(conn)
			conn.Close()
		}()

		conn.WriteJSON(map[string]interface{}{
			"type":    "connected",
			"message": "Flux des commandes activé",
		})

		// Tenir la connexion ouverte tant que le client lit
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}
