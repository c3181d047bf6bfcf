package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order lifecycle statuses. Any member may follow any other via the
// update-status endpoint; only non-members are rejected.
const (
	OrderStatusPending   = "pending"
	OrderStatusAssigned  = "assigned"
	OrderStatusPickedUp  = "picked_up"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

const (
	PaymentStatusPaid    = "paid"
	PaymentStatusNotPaid = "not_paid"
)

// ValidOrderStatus reports membership in the order status set.
func ValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusAssigned, OrderStatusPickedUp,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderItem is a by-value snapshot of a catalog service at order time.
// Catalog edits never mutate historical orders.
type OrderItem struct {
	ServiceID   string  `json:"service_id,omitempty"`
	Name        string  `json:"name"`
	ServiceType string  `json:"service_type,omitempty"`
	Price       float64 `json:"price"`
	Quantity    float64 `json:"quantity"`
	Total       float64 `json:"total"`
}

// ItemList stores the item snapshot as a single JSON column.
type ItemList []OrderItem

func (l ItemList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *ItemList) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	case nil:
		*l = nil
		return nil
	}
	return errors.New("unsupported type for ItemList")
}

type Order struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OrderNumber string    `gorm:"uniqueIndex;not null" json:"orderNumber"`

	CustomerID uuid.UUID  `gorm:"type:uuid;index;not null" json:"customerId"`
	AddressID  uuid.UUID  `gorm:"type:uuid;index;not null" json:"addressId"`
	RiderID    *uuid.UUID `gorm:"type:uuid;index" json:"riderId"`

	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Address  *Address  `gorm:"foreignKey:AddressID" json:"address,omitempty"`
	Rider    *Rider    `gorm:"foreignKey:RiderID;constraint:OnDelete:SET NULL" json:"rider,omitempty"`

	Items       ItemList `gorm:"type:jsonb" json:"items"`
	Subtotal    float64  `gorm:"type:decimal(10,3);not null" json:"subtotal"`
	TotalAmount float64  `gorm:"type:decimal(10,3);not null" json:"totalAmount"`

	PaymentMethod string `json:"paymentMethod"`
	PaymentStatus string `gorm:"type:varchar(20);default:'not_paid'" json:"paymentStatus"`

	PickupDate *time.Time `json:"pickupDate"`
	TimeSlot   string     `json:"timeSlot"`
	Notes      string     `gorm:"type:text" json:"notes"`
	Source     string     `gorm:"type:varchar(30)" json:"source"`

	Status string `gorm:"type:varchar(20);default:'pending';index" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return
}
