package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Overlay is a named map layer drawn over the search map: the maritime
// terrestrial zone, municipal zoning, protected aquifer recharge areas.
type Overlay struct {
	gorm.Model
	Slug        string         `json:"slug" gorm:"size:64;uniqueIndex"`
	Name        string         `json:"name" gorm:"size:128"`
	Kind        string         `json:"kind" gorm:"size:32;index"` // maritime_zone, zoning, aquifer
	Description string         `json:"description" gorm:"type:text"`
	GeoJSON     datatypes.JSON `json:"geoJSON" gorm:"type:jsonb"`
	Enabled     bool           `json:"enabled" gorm:"default:true;index"`
}
