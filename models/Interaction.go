package models

import (
	"time"
)

const (
	InteractionLike    = "like"
	InteractionView    = "view"
	InteractionShare   = "share"
	InteractionComment = "comment"
	InteractionTip     = "tip"
)

// Interaction is an append-only audit row. It is not authoritative for any
// count; the denormalized fields on User and Video are.
type Interaction struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userID" gorm:"index;not null"`
	VideoID   uint      `json:"videoID" gorm:"index;not null"`
	Type      string    `json:"type" gorm:"type:varchar(16);index;not null"`
	CreatedAt time.Time `json:"createdAt"`
}

// ValidInteractionType reports whether t is one of the recognized kinds.
func ValidInteractionType(t string) bool {
	switch t {
	case InteractionLike, InteractionView, InteractionShare, InteractionComment, InteractionTip:
		return true
	}
	return false
}
