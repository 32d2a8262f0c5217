package models

import "gorm.io/gorm"

// Collection is a buyer-curated list of saved properties
// (e.g. "Beachfront under 500k", "Nosara lots").
type Collection struct {
	gorm.Model
	UserID      uint   `json:"userID" gorm:"not null;index"`
	User        User   `json:"user" gorm:"foreignKey:UserID;references:ID"`
	Name        string `json:"name" gorm:"size:100;not null"`
	Description string `json:"description" gorm:"size:500"`

	Properties []CollectionProperty `json:"properties" gorm:"foreignKey:CollectionID"`
}

// CollectionProperty links one property into a collection.
type CollectionProperty struct {
	gorm.Model
	CollectionID uint     `json:"collectionID" gorm:"not null;index;uniqueIndex:idx_collection_property"`
	PropertyID   uint     `json:"propertyID" gorm:"not null;index;uniqueIndex:idx_collection_property"`
	Property     Property `json:"property" gorm:"foreignKey:PropertyID;references:ID"`
}
