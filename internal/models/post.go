// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a blog post in the Inkwell application.
// UserID is the owning author reference and is immutable after creation.
type Post struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Title       string       `gorm:"not null" json:"title"`
	Content     string       `gorm:"type:text;not null" json:"content"`
	UserID      uint         `gorm:"not null;index" json:"author"`
	User        User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Categories  []Category   `gorm:"many2many:post_categories" json:"categories"`
	Attachments []Attachment `gorm:"many2many:post_attachments" json:"attachments,omitempty"`
	Comments    []Comment    `gorm:"foreignKey:PostID" json:"comments,omitempty"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// DislikesCount is not persisted; computed at query time
	DislikesCount int `gorm:"->" json:"dislikes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked bool `gorm:"->" json:"liked"`
	// Disliked indicates whether the current requesting user disliked this post (computed)
	Disliked  bool           `gorm:"->" json:"disliked"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Category is a globally shared name tag attached many-to-many to posts.
type Category struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:100;unique;not null" json:"name"`
	Posts []Post `gorm:"many2many:post_categories" json:"-"`
}

// Attachment is a stored file reference attached to posts. The file itself
// lives in external blob storage; only the URL is kept here.
type Attachment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FileURL   string    `gorm:"not null" json:"file_url"`
	CreatedAt time.Time `json:"created_at"`
}
