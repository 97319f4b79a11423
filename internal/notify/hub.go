package notify

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub diffuse les événements de commande aux clients WebSocket connectés
// (tableau de bord admin). Les connexions mortes sont évincées au premier
// échec d'écriture.
type Hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{conns: make(map[*websocket.Conn]bool)}
}

func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = true
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
}

// Broadcast envoie le payload JSON à tous les clients.
func (h *Hub) Broadcast(payload interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.conns {
		if err := conn.WriteJSON(payload); err != nil {
			log.Printf("❌ Erreur envoi WebSocket: %v", err)
			conn.Close()
			delete(h.conns, conn)
		}
	}
}
