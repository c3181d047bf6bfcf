package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Valid values for Address.LocationType.
const (
	LocationTypeHome   = "home"
	LocationTypeOffice = "office"
	LocationTypeOther  = "other"
)

type Address struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null" json:"customerId"`

	Formatted   string `gorm:"type:text" json:"formatted"`
	Block       string `json:"block"`
	Road        string `json:"road"`
	Building    string `json:"building"`
	Flat        string `json:"flat"`
	Floor       string `json:"floor"`
	City        string `json:"city"`
	Governorate string `json:"governorate"`

	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	PlaceID   string   `gorm:"index" json:"placeId"`

	LocationType string `gorm:"type:varchar(20);default:'home'" json:"locationType"`
	IsDefault    bool   `gorm:"default:false" json:"isDefault"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *Address) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}

// HasCoordinates reports whether the address carries a usable map location.
func (a *Address) HasCoordinates() bool {
	return a.Latitude != nil && a.Longitude != nil
}
