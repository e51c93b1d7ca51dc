package ws

import (
	"sync"

	"go-pantry-api/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Hub fans inventory change events out to every connected client.
type Hub struct {
	clients    map[*websocket.Conn]uuid.UUID
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]uuid.UUID),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte),
	}
}

func (h *Hub) Run() {
	log := logger.GetLogger()
	for {
		select {
		case conn := <-h.Register:
			id := uuid.New()
			h.mutex.Lock()
			h.clients[conn] = id
			h.mutex.Unlock()
			log.Info("websocket client connected", zap.String("client_id", id.String()))

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if id, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
				log.Info("websocket client disconnected", zap.String("client_id", id.String()))
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}
