package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CatalogStatusActive   = "active"
	CatalogStatusInactive = "inactive"
)

// Category is the top level of the three-level service catalog
// (category -> subcategory -> priced service).
type Category struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	Name      string `gorm:"uniqueIndex;not null" json:"name"`
	Status    string `gorm:"type:varchar(20);default:'active'" json:"status"`
	SortOrder int    `gorm:"default:0" json:"sortOrder"`

	Subcategories []Subcategory `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"subcategories,omitempty"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

type Subcategory struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CategoryID uuid.UUID `gorm:"type:uuid;index;not null" json:"categoryId"`

	Name      string `gorm:"not null" json:"name"`
	Status    string `gorm:"type:varchar(20);default:'active'" json:"status"`
	SortOrder int    `gorm:"default:0" json:"sortOrder"`

	Services []Service `gorm:"foreignKey:SubcategoryID;constraint:OnDelete:CASCADE" json:"services,omitempty"`
}

func (s *Subcategory) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// Service is a priced catalog line item. Orders snapshot it by value, so
// price edits never rewrite history.
type Service struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SubcategoryID uuid.UUID `gorm:"type:uuid;index;not null" json:"subcategoryId"`

	Name        string  `gorm:"not null" json:"name"`
	Price       float64 `gorm:"type:decimal(10,3);not null" json:"price"`
	ServiceType string  `gorm:"type:varchar(30)" json:"serviceType"`
	Status      string  `gorm:"type:varchar(20);default:'active'" json:"status"`
	SortOrder   int     `gorm:"default:0" json:"sortOrder"`
}

func (s *Service) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
