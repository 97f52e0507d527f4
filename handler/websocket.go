package handler

import (
	"campus_eats/database"
	"campus_eats/helper"
	"campus_eats/service"
	"context"
	"log/slog"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

var (
	kitchenClients = make(map[*websocket.Conn]bool)
	mu             sync.Mutex
)

// KitchenWebsocket sends the current task list, then keeps the board
// subscribed to live task events until the client disconnects.
func KitchenWebsocket(c *websocket.Conn) {
	defer func() {
		mu.Lock()
		delete(kitchenClients, c)
		mu.Unlock()
		c.Close()
	}()

	tasks, err := service.ListKitchenTasks(context.Background(), database.DB, "")
	if err != nil {
		slog.Error("kitchen snapshot failed", "error", err)
		return
	}
	if err := c.WriteJSON(fiber.Map{"type": "snapshot", "tasks": tasks}); err != nil {
		return
	}

	mu.Lock()
	kitchenClients[c] = true
	mu.Unlock()

	// Reads only detect the close; boards never send anything.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}

func broadcastKitchen(payload []byte) {
	mu.Lock()
	defer mu.Unlock()
	for conn := range kitchenClients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			conn.Close()
			delete(kitchenClients, conn)
		}
	}
}

// StartKitchenBroadcast relays kitchen events from Redis to connected boards
// until ctx is cancelled.
func StartKitchenBroadcast(ctx context.Context, feed *helper.KitchenFeed) {
	pubsub := feed.Subscribe(ctx)
	go func() {
		defer pubsub.Close()
		channel := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-channel:
				if !ok {
					return
				}
				broadcastKitchen([]byte(msg.Payload))
			}
		}
	}()
}
