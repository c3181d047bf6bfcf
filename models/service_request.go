package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service request lifecycle statuses.
const (
	RequestStatusPending       = "pending"
	RequestStatusConfirmed     = "confirmed"
	RequestStatusRiderAssigned = "rider_assigned"
	RequestStatusCompleted     = "completed"
	RequestStatusCancelled     = "cancelled"
)

// ValidRequestStatus reports membership in the service request status set.
func ValidRequestStatus(status string) bool {
	switch status {
	case RequestStatusPending, RequestStatusConfirmed, RequestStatusRiderAssigned,
		RequestStatusCompleted, RequestStatusCancelled:
		return true
	}
	return false
}

// ServiceRequest is a scheduled pickup booked before items are known. Once a
// rider is assigned it carries a single-use bearer token granting the rider
// access to the public cart-building flow; confirming the cart converts the
// request into exactly one Order.
type ServiceRequest struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	RequestNumber string    `gorm:"uniqueIndex;not null" json:"requestNumber"`

	CustomerID uuid.UUID  `gorm:"type:uuid;index;not null" json:"customerId"`
	AddressID  uuid.UUID  `gorm:"type:uuid;index;not null" json:"addressId"`
	RiderID    *uuid.UUID `gorm:"type:uuid;index" json:"riderId"`
	OrderID    *uuid.UUID `gorm:"type:uuid;index" json:"orderId"`

	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Address  *Address  `gorm:"foreignKey:AddressID" json:"address,omitempty"`
	Rider    *Rider    `gorm:"foreignKey:RiderID;constraint:OnDelete:SET NULL" json:"rider,omitempty"`
	Order    *Order    `gorm:"foreignKey:OrderID" json:"order,omitempty"`

	ServiceDate *time.Time `json:"serviceDate"`
	TimeSlot    string     `json:"timeSlot"`
	Notes       string     `gorm:"type:text" json:"notes"`

	Status string `gorm:"type:varchar(20);default:'pending';index" json:"status"`

	Token          *string    `gorm:"uniqueIndex" json:"-"`
	TokenExpiresAt *time.Time `json:"tokenExpiresAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (sr *ServiceRequest) BeforeCreate(tx *gorm.DB) (err error) {
	if sr.ID == uuid.Nil {
		sr.ID = uuid.New()
	}
	return
}

// TokenExpired reports whether the pickup token has passed its expiry.
func (sr *ServiceRequest) TokenExpired(now time.Time) bool {
	return sr.TokenExpiresAt != nil && sr.TokenExpiresAt.Before(now)
}
