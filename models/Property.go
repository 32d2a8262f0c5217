package models

import (
	"encoding/json"

	"gorm.io/gorm"
)

type Property struct {
	gorm.Model
	OwnerID      uint    `json:"ownerID" gorm:"index"`
	Title        string  `json:"title"`
	Description  string  `json:"description" gorm:"type:text"`
	PropertyType string  `json:"propertyType" gorm:"size:32;index"` // house, condo, lot, farm, commercial
	Town         string  `json:"town" gorm:"size:100;index"`        // Tamarindo, Nosara, Playa Flamingo, ...
	Province     string  `json:"province" gorm:"size:50;default:Guanacaste"`
	Country      string  `json:"country" gorm:"size:50;default:'Costa Rica'"`
	Lat          float32 `json:"lat"`
	Lng          float32 `json:"lng"`
	Bedrooms     int     `json:"bedrooms"`
	Bathrooms    float32 `json:"bathrooms"`
	LotSizeM2    float32 `json:"lotSizeM2"`
	BuiltSizeM2  float32 `json:"builtSizeM2"`
	YearBuilt    int     `json:"yearBuilt"`
	PriceUSD     float64 `json:"priceUSD" gorm:"index"`
	// Tenure: fee-simple titled land vs maritime zone concession,
	// the distinction that matters most on the Guanacaste coast
	Titled         *bool  `json:"titled"`
	ConcessionInfo string `json:"concessionInfo" gorm:"type:text"`

	Features string `json:"features"` // JSON array of strings
	// Photos is a JSON array of storage paths; public URLs are derived
	// by storage.PhotoURL at render time
	Photos string `json:"photos"`

	IsActive    *bool `json:"isActive"`
	FreeListing bool  `json:"freeListing" gorm:"default:false;index"`
	Featured    bool  `json:"featured" gorm:"default:false;index"`
	ViewCount   int64 `json:"viewCount" gorm:"default:0"`

	Owner User `json:"owner" gorm:"foreignKey:OwnerID;references:ID"`

	// Admin moderation fields
	Status      string `json:"status" gorm:"type:varchar(20);default:'pending';index"` // pending, approved, rejected
	ReviewNotes string `json:"reviewNotes" gorm:"type:text"`
	IsFlagged   bool   `json:"isFlagged" gorm:"default:false;index"`
	FlagReason  string `json:"flagReason" gorm:"type:text"`
}

// Custom JSON marshaling to convert Photos and Features strings to arrays
func (p *Property) MarshalJSON() ([]byte, error) {
	type Alias Property
	aux := &struct {
		Photos   []string `json:"photos"`
		Features []string `json:"features"`
		Owner    *User    `json:"owner,omitempty"`
		*Alias
	}{
		Photos:   []string{},
		Features: []string{},
		Owner:    nil,
		Alias:    (*Alias)(p),
	}

	if p.Photos != "" {
		var photos []string
		if err := json.Unmarshal([]byte(p.Photos), &photos); err == nil {
			aux.Photos = photos
		}
	}

	if p.Features != "" {
		var features []string
		if err := json.Unmarshal([]byte(p.Features), &features); err == nil {
			aux.Features = features
		}
	}

	// Only include owner if it is loaded, and strip its Properties to
	// avoid a circular reference
	if p.Owner.ID > 0 {
		ownerCopy := p.Owner
		ownerCopy.Properties = nil
		aux.Owner = &ownerCopy
	}

	return json.Marshal(aux)
}
