// models/notification.go
package models

import "time"

// Notification is a message shown to the user in the client's inbox and
// pushed over the websocket stream while they are connected.
type Notification struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	Type    string `gorm:"size:30;index" json:"type"` // budget_alert, weekly_summary, system
	Title   string `gorm:"not null;size:200" json:"title"`
	Message string `gorm:"type:text" json:"message"`
	Read    bool   `gorm:"default:false;index" json:"read"`

	CreatedAt time.Time `json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (Notification) TableName() string {
	return "notifications"
}
