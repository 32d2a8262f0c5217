package models

import "gorm.io/gorm"

// Town is one entry in the Guanacaste town directory used by search
// filters and the home page.
type Town struct {
	gorm.Model
	Name   string  `json:"name" gorm:"size:100;uniqueIndex"`
	Slug   string  `json:"slug" gorm:"size:100;uniqueIndex"`
	Blurb  string  `json:"blurb" gorm:"type:text"`
	Lat    float32 `json:"lat"`
	Lng    float32 `json:"lng"`
	Beach  bool    `json:"beach" gorm:"default:false"`
	Inland bool    `json:"inland" gorm:"default:false"`
}
