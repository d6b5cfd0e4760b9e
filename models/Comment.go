package models

import (
	"gorm.io/gorm"
)

type Comment struct {
	gorm.Model
	Content string `json:"content" gorm:"type:text;not null"`

	UserID uint `json:"userID" gorm:"not null;index"`
	User   User `json:"user" gorm:"foreignKey:UserID;references:ID"`

	VideoID uint  `json:"videoID" gorm:"not null;index"`
	Video   Video `json:"-" gorm:"foreignKey:VideoID;references:ID"`
}
