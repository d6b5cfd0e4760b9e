package models

import (
	"gorm.io/gorm"
)

// Tip is an append-only ledger entry. Rows are never updated or deleted,
// and they survive deletion of the video they reference.
type Tip struct {
	gorm.Model
	SenderID uint `json:"senderID" gorm:"not null;index"`
	Sender   User `json:"sender" gorm:"foreignKey:SenderID;references:ID"`

	ReceiverID uint `json:"receiverID" gorm:"not null;index"`
	Receiver   User `json:"receiver" gorm:"foreignKey:ReceiverID;references:ID"`

	VideoID uint  `json:"videoID" gorm:"not null;index"`
	Amount  int64 `json:"amount" gorm:"not null"`
}
