// handlers/notifications.go
package handlers

import (
	"log"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"fintrack/database"
	"fintrack/middleware"
	"fintrack/models"
)

// notificationHub fans freshly created notifications out to any websocket
// subscribers the user has open.
type notificationHub struct {
	mu   sync.RWMutex
	subs map[uint]map[string]chan models.Notification
}

var hub = &notificationHub{subs: make(map[uint]map[string]chan models.Notification)}

func (h *notificationHub) subscribe(userID uint) (string, chan models.Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := uuid.New().String()
	ch := make(chan models.Notification, 16)
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[string]chan models.Notification)
	}
	h.subs[userID][id] = ch
	return id, ch
}

func (h *notificationHub) unsubscribe(userID uint, id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if chans, ok := h.subs[userID]; ok {
		if ch, ok := chans[id]; ok {
			close(ch)
			delete(chans, id)
		}
		if len(chans) == 0 {
			delete(h.subs, userID)
		}
	}
}

func (h *notificationHub) publish(n models.Notification) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subs[n.UserID] {
		select {
		case ch <- n:
		default: // slow subscriber, drop rather than block
		}
	}
}

// CreateNotification persists a notification and pushes it to live
// subscribers. Used by handlers and the scheduler, never by the resolver.
func CreateNotification(db *gorm.DB, userID uint, ntype, title, message string) {
	n := models.Notification{
		UserID:  userID,
		Type:    ntype,
		Title:   title,
		Message: message,
	}
	if err := db.Create(&n).Error; err != nil {
		log.Printf("Failed to create notification for user %d: %v", userID, err)
		return
	}
	hub.publish(n)
}

// GetNotifications lists the user's notifications, newest first
func GetNotifications(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	query := db.Where("user_id = ?", userID)
	if c.Query("unread") == "true" {
		query = query.Where("read = ?", false)
	}

	var notifications []models.Notification
	if err := query.Order("created_at DESC").Limit(100).Find(&notifications).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch notifications"})
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"notifications": notifications,
	})
}

// MarkNotificationRead flags one notification as read
func MarkNotificationRead(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	result := db.Model(&models.Notification{}).
		Where("user_id = ? AND id = ?", userID, c.Params("id")).
		Update("read", true)
	if result.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update notification"})
	}
	if result.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "Notification not found"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// NotificationSocketUpgrade rejects non-websocket requests before upgrade
func NotificationSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// NotificationSocket streams new notifications to the connected client as
// JSON messages until the client disconnects.
var NotificationSocket = websocket.New(func(conn *websocket.Conn) {
	userID, ok := socketUserID(conn)
	if !ok {
		conn.Close()
		return
	}

	subID, ch := hub.subscribe(userID)
	defer hub.unsubscribe(userID, subID)

	// Drain reads so close frames are processed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteJSON(n); err != nil {
				return
			}
		}
	}
})

func socketUserID(conn *websocket.Conn) (uint, bool) {
	switch v := conn.Locals("userId").(type) {
	case float64:
		return uint(v), true
	case uint:
		return v, true
	default:
		return 0, false
	}
}
