package notify

import (
	"log"

	"bocal_back_end/internal/models"
	"bocal_back_end/internal/utils"
)

// OrderNotifier pousse la confirmation de commande vers les clients
// WebSocket et par e-mail. Tout est best-effort : un échec est logué,
// jamais remonté — la commande est déjà confirmée à ce stade.
type OrderNotifier struct {
	Hub *Hub
}

func NewOrderNotifier(hub *Hub) *OrderNotifier {
	return &OrderNotifier{Hub: hub}
}

func (n *OrderNotifier) OrderPlaced(order models.Order, userEmail string) {
	if n.Hub != nil {
		n.Hub.Broadcast(map[string]interface{}{
			"type":     "order_placed",
			"order_id": order.ID,
			"user_id":  order.UserID,
			"total":    order.Total,
			"status":   order.Status,
		})
	}

	if userEmail == "" {
		return
	}

	pdf, err := utils.RenderReceiptPDF(order)
	if err != nil {
		log.Println("⚠️ Reçu PDF non généré :", err)
		pdf = nil
	}

	html := utils.GenerateOrderConfirmationHTML(order)
	if err := utils.SendOrderEmail(userEmail, "🫙 Bocal — Confirmation de commande", html, pdf); err != nil {
		log.Println("⚠️ E-mail de confirmation non envoyé :", err)
	}
}
