package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// RealtorProfile is the public professional profile shown for realtors and
// owner-sellers. Separate from User, which handles authentication.
type RealtorProfile struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"userID" gorm:"not null;uniqueIndex"`
	User   User `json:"user" gorm:"foreignKey:UserID"`

	DisplayName string `json:"displayName" gorm:"size:100"`
	AvatarURL   string `json:"avatarURL" gorm:"size:512"`
	Bio         string `json:"bio" gorm:"type:text"`

	Agency        string `json:"agency" gorm:"size:100"`
	LicenseNumber string `json:"licenseNumber" gorm:"size:50"` // SUGEF/CCCBR registration where applicable
	Website       string `json:"website" gorm:"size:255"`
	WhatsApp      string `json:"whatsApp" gorm:"size:30"`
	Instagram     string `json:"instagram" gorm:"size:100"`

	// Towns the realtor actively covers and languages spoken
	TownsServed datatypes.JSON `json:"townsServed"`
	Languages   datatypes.JSON `json:"languages"`

	YearsInGuanacaste int  `json:"yearsInGuanacaste"`
	IsPublic          bool `json:"isPublic" gorm:"default:true"`
	IsComplete        bool `json:"isComplete" gorm:"default:false"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *RealtorProfile) MarshalJSON() ([]byte, error) {
	type Alias RealtorProfile
	aux := &struct {
		TownsServed []string `json:"townsServed"`
		Languages   []string `json:"languages"`
		User        *User    `json:"user,omitempty"`
		*Alias
	}{
		TownsServed: []string{},
		Languages:   []string{},
		Alias:       (*Alias)(p),
	}

	if p.TownsServed != nil {
		var towns []string
		if err := json.Unmarshal(p.TownsServed, &towns); err == nil {
			aux.TownsServed = towns
		}
	}
	if p.Languages != nil {
		var langs []string
		if err := json.Unmarshal(p.Languages, &langs); err == nil {
			aux.Languages = langs
		}
	}
	if p.User.ID > 0 {
		userCopy := p.User
		userCopy.Properties = nil
		aux.User = &userCopy
	}

	return json.Marshal(aux)
}
