// controllers/payload.go
//
// The create-order and create-service-request endpoints accept three
// historically grown payload shapes: direct customer/address ids, nested
// customer+address objects, and camelCase field variants from the external
// ordering channel. Every accepted shape is mapped onto one canonical
// partyPayload at the boundary instead of branching shape detection through
// the handlers.
package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"laundrypro-backend/models"
	"laundrypro-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// apiError pairs a handler-facing message with its HTTP status code.
type apiError struct {
	code    int
	message string
}

func (e *apiError) Error() string { return e.message }

func newAPIError(code int, message string) *apiError {
	return &apiError{code: code, message: message}
}

// FlexFloat accepts JSON numbers and numeric strings; the external channel
// historically sent both.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}

// CustomerPayload is the nested customer object shape.
type CustomerPayload struct {
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
	Phone  string `json:"phone"` // camelCase channel sends "phone"
}

func (p *CustomerPayload) mobile() string {
	if p.Mobile != "" {
		return p.Mobile
	}
	return p.Phone
}

// AddressPayload is the nested address object shape.
type AddressPayload struct {
	Formatted    string   `json:"formatted"`
	Block        string   `json:"block"`
	Road         string   `json:"road"`
	Building     string   `json:"building"`
	Flat         string   `json:"flat"`
	Floor        string   `json:"floor"`
	City         string   `json:"city"`
	Governorate  string   `json:"governorate"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	PlaceID      string   `json:"place_id"`
	PlaceIDCamel string   `json:"placeId"`
	LocationType string   `json:"location_type"`
}

func (p *AddressPayload) placeID() string {
	if p.PlaceID != "" {
		return p.PlaceID
	}
	return p.PlaceIDCamel
}

// partyPayload is the canonical customer/address portion of an inbound
// order or service request.
type partyPayload struct {
	CustomerID *uuid.UUID
	Customer   *CustomerPayload
	AddressID  *uuid.UUID
	Address    *AddressPayload
}

// OrderItemInput is one submitted line item. Price and quantity tolerate
// string or numeric encodings.
type OrderItemInput struct {
	ServiceID   string    `json:"service_id"`
	Name        string    `json:"name" binding:"required"`
	ServiceType string    `json:"service_type"`
	Price       FlexFloat `json:"price"`
	Quantity    FlexFloat `json:"quantity"`
}

// toItem coerces the raw input into a snapshot item with a computed total.
func (it *OrderItemInput) toItem() (models.OrderItem, *apiError) {
	if it.Quantity <= 0 {
		return models.OrderItem{}, newAPIError(http.StatusBadRequest, "Item quantity must be positive: "+it.Name)
	}
	if it.Price < 0 {
		return models.OrderItem{}, newAPIError(http.StatusBadRequest, "Item price cannot be negative: "+it.Name)
	}
	price := float64(it.Price)
	qty := float64(it.Quantity)
	return models.OrderItem{
		ServiceID:   it.ServiceID,
		Name:        it.Name,
		ServiceType: it.ServiceType,
		Price:       price,
		Quantity:    qty,
		Total:       price * qty,
	}, nil
}

// buildItems converts all submitted items and returns the running subtotal.
func buildItems(inputs []OrderItemInput) (models.ItemList, float64, *apiError) {
	items := make(models.ItemList, 0, len(inputs))
	var subtotal float64
	for i := range inputs {
		item, apiErr := inputs[i].toItem()
		if apiErr != nil {
			return nil, 0, apiErr
		}
		subtotal += item.Total
		items = append(items, item)
	}
	return items, subtotal, nil
}

// parseDate accepts plain dates and RFC3339 timestamps.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, errors.New("invalid date: " + s)
}

// resolveCustomer finds or creates the customer inside the caller's
// transaction. Lookup is by exact mobile match, never by name.
func resolveCustomer(tx *gorm.DB, party *partyPayload) (*models.Customer, *apiError) {
	if party.CustomerID != nil {
		var customer models.Customer
		if err := tx.First(&customer, "id = ?", *party.CustomerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, newAPIError(http.StatusNotFound, "Customer not found")
			}
			return nil, newAPIError(http.StatusInternalServerError, "Database error")
		}
		return &customer, nil
	}

	if party.Customer == nil || party.Customer.mobile() == "" {
		return nil, newAPIError(http.StatusBadRequest, "customer_id or customer with mobile is required")
	}
	mobile := party.Customer.mobile()
	if !utils.ValidatePhone(mobile) {
		return nil, newAPIError(http.StatusBadRequest, "Invalid mobile number format")
	}

	var customer models.Customer
	err := tx.First(&customer, "mobile = ?", mobile).Error
	if err == nil {
		return &customer, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newAPIError(http.StatusInternalServerError, "Database error")
	}

	name := party.Customer.Name
	if name == "" {
		name = mobile
	}
	customer = models.Customer{Name: name, Mobile: mobile}
	if err := tx.Create(&customer).Error; err != nil {
		return nil, newAPIError(http.StatusInternalServerError, "Failed to create customer")
	}
	return &customer, nil
}

// resolveAddress finds or creates the delivery address for the customer. A
// supplied place_id reuses the customer's existing row for that place
// instead of duplicating it.
func resolveAddress(tx *gorm.DB, customer *models.Customer, party *partyPayload) (*models.Address, *apiError) {
	if party.AddressID != nil {
		var address models.Address
		if err := tx.First(&address, "id = ? AND customer_id = ?", *party.AddressID, customer.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, newAPIError(http.StatusNotFound, "Address not found for this customer")
			}
			return nil, newAPIError(http.StatusInternalServerError, "Database error")
		}
		return &address, nil
	}

	if party.Address == nil {
		return nil, newAPIError(http.StatusBadRequest, "address_id or address object is required")
	}

	if placeID := party.Address.placeID(); placeID != "" {
		var existing models.Address
		err := tx.First(&existing, "customer_id = ? AND place_id = ?", customer.ID, placeID).Error
		if err == nil {
			return &existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newAPIError(http.StatusInternalServerError, "Database error")
		}
	}

	locationType := party.Address.LocationType
	if locationType == "" {
		locationType = models.LocationTypeHome
	}
	address := models.Address{
		CustomerID:   customer.ID,
		Formatted:    party.Address.Formatted,
		Block:        party.Address.Block,
		Road:         party.Address.Road,
		Building:     party.Address.Building,
		Flat:         party.Address.Flat,
		Floor:        party.Address.Floor,
		City:         party.Address.City,
		Governorate:  party.Address.Governorate,
		Latitude:     party.Address.Latitude,
		Longitude:    party.Address.Longitude,
		PlaceID:      party.Address.placeID(),
		LocationType: locationType,
	}
	if err := tx.Create(&address).Error; err != nil {
		return nil, newAPIError(http.StatusInternalServerError, "Failed to create address")
	}
	return &address, nil
}

// uniqueNumber generates a human-readable identifier and re-rolls it while a
// row already carries it. The check runs inside the caller's transaction so a
// losing race still surfaces as a unique-constraint rollback rather than a
// duplicate row.
func uniqueNumber(tx *gorm.DB, model interface{}, column string, generate func() string) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		number := generate()
		var count int64
		if err := tx.Model(model).Where(column+" = ?", number).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return number, nil
		}
	}
	return "", errors.New("could not generate a unique number")
}
