package models

import (
	"time"
)

// Notification is a message produced for a post's author when someone
// comments on their post. Rows are created only by the notification
// pipeline and are never mutated afterwards.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	Message   string    `gorm:"size:255;not null" json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Subscription captures a user's notification preferences: an optional
// category filter and a flag for post-update notifications. The delivery
// pipeline intentionally does not consult these yet (notify-always policy).
type Subscription struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	User         User      `gorm:"foreignKey:UserID" json:"-"`
	Category     *string   `gorm:"size:50" json:"category,omitempty"`
	IsPostUpdate bool      `gorm:"default:false" json:"is_post_update"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
