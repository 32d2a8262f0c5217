package models

import (
	"time"

	"gorm.io/gorm"
)

// Subscription tracks the listing plan a seller or realtor is on.
type Subscription struct {
	gorm.Model
	UserID uint `json:"userID" gorm:"not null;uniqueIndex"`
	User   User `json:"user" gorm:"foreignKey:UserID;references:ID"`

	Plan   string `json:"plan" gorm:"size:20;default:free;index"`     // free, featured, pro
	Status string `json:"status" gorm:"size:20;default:active;index"` // active, past_due, canceled

	CurrentPeriodEnd *time.Time `json:"currentPeriodEnd"`
	CanceledAt       *time.Time `json:"canceledAt"`
}
