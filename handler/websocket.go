package handler

import (
	"context"
	"log"
	"lomaro_whatsapp/database"
	"lomaro_whatsapp/helper"
	"lomaro_whatsapp/model"
	"sync"

	"github.com/gofiber/contrib/websocket"
)

// feedConn is the slice of *websocket.Conn the feed needs, so the fan-out can
// be tested without a live socket.
type feedConn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

var (
	feedClients = make(map[feedConn]bool)
	feedMu      sync.Mutex
	feedOnce    sync.Once
)

// startOrderFeedPump is the single redis subscriber. Each published order is
// fanned out once per connected client.
func startOrderFeedPump() {
	pubsub := helper.RedisClient.Subscribe(context.Background(), helper.OrdersChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		broadcastOrderPayload([]byte(msg.Payload))
	}
	log.Println("[WS] order feed subscription closed")
}

func broadcastOrderPayload(payload []byte) {
	feedMu.Lock()
	defer feedMu.Unlock()
	for conn := range feedClients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			conn.Close()
			delete(feedClients, conn)
		}
	}
}

// OrderFeedConnection pushes new orders to dashboard clients as they come in
// over the redis pub/sub channel.
func OrderFeedConnection(c *websocket.Conn) {
	feedOnce.Do(func() { go startOrderFeedPump() })

	defer func() {
		feedMu.Lock()
		delete(feedClients, c)
		feedMu.Unlock()
		c.Close()
	}()

	feedMu.Lock()
	feedClients[c] = true
	feedMu.Unlock()

	// Send the latest orders once on connect so the dashboard is not empty.
	var recent []model.Order
	if err := database.DB.Preload("Lines").Order("created_at DESC").Limit(20).Find(&recent).Error; err == nil {
		c.WriteJSON(recent)
	}

	// Hold the connection open; exit (and deregister) when the client goes away.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}
