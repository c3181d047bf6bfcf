package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RiderStatusActive   = "active"
	RiderStatusInactive = "inactive"
)

type Rider struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	Name   string `gorm:"not null" json:"name"`
	Mobile string `gorm:"not null" json:"mobile"`
	Status string `gorm:"type:varchar(20);default:'active'" json:"status"`

	gorm.Model
}

func (r *Rider) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
