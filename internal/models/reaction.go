package models

import "time"

// ReactionKind is the stored kind of a reaction row.
type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

// ReactionState is the position of a (post, user) pair in the engagement
// state machine.
type ReactionState string

const (
	ReactionNeutral       ReactionState = "neutral"
	ReactionStateLiked    ReactionState = "liked"
	ReactionStateDisliked ReactionState = "disliked"
)

// State maps a stored kind onto the state machine position it represents.
func (k ReactionKind) State() ReactionState {
	if k == ReactionDislike {
		return ReactionStateDisliked
	}
	return ReactionStateLiked
}

// Reaction represents a user's like or dislike on a post.
// The combination of UserID and PostID must be unique, so a user can never
// hold a like and a dislike on the same post at once. Rows are hard-deleted
// on toggle-off; there is no soft delete here.
type Reaction struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	UserID    uint         `gorm:"not null;uniqueIndex:idx_reactions_user_post" json:"user_id"`
	PostID    uint         `gorm:"not null;uniqueIndex:idx_reactions_user_post" json:"post_id"`
	Kind      ReactionKind `gorm:"size:10;not null" json:"kind"`
	CreatedAt time.Time    `json:"created_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"-"`
	Post Post `gorm:"foreignKey:PostID" json:"-"`
}
