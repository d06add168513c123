package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
)

// Hub fans stock-change events out to connected POS terminals so carts can
// react to inventory moving under them.
type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
}

// StockDelta is one product's stock change inside a broadcast event.
type StockDelta struct {
	ProductID string `json:"product_id"`
	Delta     int    `json:"delta"`
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			log.Println("New WS client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// BroadcastStockUpdate pushes a stock_update event without blocking the
// caller's transaction path.
func (h *Hub) BroadcastStockUpdate(action string, deltas []StockDelta) {
	go func() {
		payload := map[string]interface{}{
			"type":    "stock_update",
			"action":  action,
			"changes": deltas,
		}
		msg, _ := json.Marshal(payload)
		h.Broadcast <- msg
	}()
}
