package models

import (
	"time"

	"gorm.io/gorm"
)

// Message is one directed message inside a thread. A thread groups the
// back-and-forth between exactly two users, optionally about one property.
type Message struct {
	gorm.Model
	ThreadID   string `json:"threadID" gorm:"size:64;not null;index"`
	PropertyID *uint  `json:"propertyID" gorm:"index"`
	FromUserID uint   `json:"fromUserID" gorm:"not null;index"`
	ToUserID   uint   `json:"toUserID" gorm:"not null;index"`
	Body       string `json:"body" gorm:"type:text"`
	// ReadAt is set once when the recipient opens the thread, never unset
	ReadAt *time.Time `json:"readAt"`

	FromUser User      `json:"fromUser" gorm:"foreignKey:FromUserID;references:ID"`
	ToUser   User      `json:"toUser" gorm:"foreignKey:ToUserID;references:ID"`
	Property *Property `json:"property" gorm:"foreignKey:PropertyID;references:ID"`
}
