package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	Name   string `gorm:"not null" json:"name"`
	Mobile string `gorm:"uniqueIndex;not null" json:"mobile"`

	Addresses       []Address        `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"addresses,omitempty"`
	Orders          []Order          `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"orders,omitempty"`
	ServiceRequests []ServiceRequest `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"serviceRequests,omitempty"`

	gorm.Model
}

func (cu *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if cu.ID == uuid.Nil {
		cu.ID = uuid.New()
	}
	return
}
