package main

import (
	"context"
	"log"
	"os"
	"time"

	"bocal_back_end/internal/config"
	"bocal_back_end/internal/database"
	"bocal_back_end/internal/handlers"
	"bocal_back_end/internal/notify"
	"bocal_back_end/internal/order"
	"bocal_back_end/internal/routes"
	"bocal_back_end/internal/store/rediscart"
	"bocal_back_end/internal/store/scylla"

	"github.com/gin-gonic/gin"
)

func main() {
	config.Load()
	database.ConnectDatabases()
	defer database.CloseScylla()

	// Stores
	users := scylla.Users{}
	catalog := scylla.Catalog{}
	orders := scylla.Orders{}
	ratings := scylla.Ratings{}
	feedback := scylla.Feedback{}
	carts := rediscart.New(database.Redis)
	locks := rediscart.NewLocker(database.Redis)

	// Notifications : flux WebSocket admin + e-mail de confirmation
	hub := notify.NewHub()
	notifier := notify.NewOrderNotifier(hub)

	engine := &order.Engine{
		Catalog: catalog,
		Carts:   carts,
		Orders:  orders,
		Locks:   locks,
		Notify:  notifier,
	}

	// Terminer les checkouts interrompus par un crash
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if recovered, err := engine.RecoverPending(ctx, 2*time.Minute); err != nil {
		log.Println("⚠️ Balayage des commandes pending échoué:", err)
	} else if recovered > 0 {
		log.Printf("🔁 %d commande(s) pending reprise(s) au démarrage", recovered)
	}
	cancel()

	r := gin.Default()
	routes.RegisterRoutes(r, routes.Handlers{
		Auth:      &handlers.AuthHandler{Users: users},
		Products:  &handlers.ProductHandler{Catalog: catalog, Ratings: ratings},
		Cart:      &handlers.CartHandler{Catalog: catalog, Carts: carts, Engine: engine},
		Checkout:  &handlers.CheckoutHandler{Engine: engine, Carts: carts},
		Orders:    &handlers.OrderHandler{Orders: orders},
		Ratings:   &handlers.RatingHandler{Orders: orders, Ratings: ratings},
		Feedback:  &handlers.FeedbackHandler{Feedback: feedback},
		Dashboard: &handlers.DashboardHandler{Users: users, Catalog: catalog, Orders: orders, Ratings: ratings, Feedback: feedback},
		OrdersHub: hub,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 Serveur Bocal lancé sur le port", port)
	r.Run(":" + port)
}
