package routes

import (
	"bocal_back_end/internal/handlers"
	"bocal_back_end/internal/middleware"
	"bocal_back_end/internal/notify"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers regroupe tout ce que les routes branchent.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Products  *handlers.ProductHandler
	Cart      *handlers.CartHandler
	Checkout  *handlers.CheckoutHandler
	Orders    *handlers.OrderHandler
	Ratings   *handlers.RatingHandler
	Feedback  *handlers.FeedbackHandler
	Dashboard *handlers.DashboardHandler
	OrdersHub *notify.Hub
}

func RegisterRoutes(r *gin.Engine, h Handlers) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// Vitrine publique
	r.GET("/", handlers.Landing)
	r.GET("/services", handlers.Services)
	r.GET("/products", h.Products.List)

	// Comptes
	r.POST("/register", middleware.RegisterRateLimit(), h.Auth.Register)
	r.POST("/login", middleware.LoginRateLimit(), h.Auth.Login)

	// Suivi de commande — lien partageable, pas d'authentification
	r.GET("/track-order/:order_id", h.Orders.Track)

	// Espace authentifié
	auth := r.Group("/")
	auth.Use(middleware.AuthRequired())
	{
		auth.POST("/logout", h.Auth.Logout)
		auth.GET("/me", h.Auth.Me)
		auth.GET("/dashboard", h.Dashboard.Show)

		auth.POST("/add-to-cart", middleware.CartRateLimit(), h.Cart.Add)
		auth.POST("/remove-from-cart", h.Cart.Remove)
		auth.GET("/cart", h.Cart.View)
		auth.GET("/ws/cart", handlers.CartWebSocket)

		auth.GET("/checkout", h.Checkout.Entry)
		auth.POST("/process-checkout", h.Checkout.Process)
		auth.GET("/payment-success/:order_id", h.Orders.PaymentSuccess)
		auth.GET("/my-orders", h.Orders.MyOrders)

		auth.POST("/submit-rating/:order_id", h.Ratings.Submit)
		auth.GET("/feedback", h.Feedback.List)
		auth.POST("/feedback", h.Feedback.Submit)

		// Administration
		admin := auth.Group("/")
		admin.Use(middleware.RequireAdmin())
		{
			admin.POST("/products", h.Products.Create)
			admin.POST("/products/:id/image", h.Products.UploadImage)
			admin.GET("/ws/orders", handlers.OrdersWebSocket(h.OrdersHub))
		}
	}
}
