package controllers

import (
	"errors"
	"net/http"

	"laundrypro-backend/config"
	"laundrypro-backend/models"
	"laundrypro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateOrderInput accepts all three historical order payload shapes; see
// payload.go for the normalization rules.
type CreateOrderInput struct {
	CustomerID *uuid.UUID       `json:"customer_id"`
	Customer   *CustomerPayload `json:"customer"`
	AddressID  *uuid.UUID       `json:"address_id"`
	Address    *AddressPayload  `json:"address"`

	// camelCase variants from the external ordering channel
	CustomerIDCamel *uuid.UUID       `json:"customerId"`
	CustomerCamel   *CustomerPayload `json:"customerDetails"`
	AddressIDCamel  *uuid.UUID       `json:"addressId"`
	AddressCamel    *AddressPayload  `json:"deliveryAddress"`

	Items []OrderItemInput `json:"items" binding:"required,min=1"`

	Subtotal         *float64 `json:"subtotal"`
	TotalAmount      *float64 `json:"total_amount"`
	TotalAmountCamel *float64 `json:"totalAmount"`

	PaymentMethod      string `json:"payment_method"`
	PaymentMethodCamel string `json:"paymentMethod"`
	PaymentStatus      string `json:"payment_status" binding:"omitempty,oneof=paid not_paid"`

	PickupDate      string `json:"pickup_date"`
	PickupDateCamel string `json:"pickupDate"`
	TimeSlot        string `json:"time_slot"`
	TimeSlotCamel   string `json:"timeSlot"`
	Notes           string `json:"notes"`
	Source          string `json:"source"`
}

// normalize maps whichever shape arrived onto the canonical party payload.
func (in *CreateOrderInput) normalize() *partyPayload {
	party := &partyPayload{
		CustomerID: in.CustomerID,
		Customer:   in.Customer,
		AddressID:  in.AddressID,
		Address:    in.Address,
	}
	if party.CustomerID == nil {
		party.CustomerID = in.CustomerIDCamel
	}
	if party.Customer == nil {
		party.Customer = in.CustomerCamel
	}
	if party.AddressID == nil {
		party.AddressID = in.AddressIDCamel
	}
	if party.Address == nil {
		party.Address = in.AddressCamel
	}
	return party
}

func (in *CreateOrderInput) paymentMethod() string {
	if in.PaymentMethod != "" {
		return in.PaymentMethod
	}
	return in.PaymentMethodCamel
}

func (in *CreateOrderInput) pickupDate() string {
	if in.PickupDate != "" {
		return in.PickupDate
	}
	return in.PickupDateCamel
}

func (in *CreateOrderInput) timeSlot() string {
	if in.TimeSlot != "" {
		return in.TimeSlot
	}
	return in.TimeSlotCamel
}

func (in *CreateOrderInput) totalOverride() *float64 {
	if in.TotalAmount != nil {
		return in.TotalAmount
	}
	return in.TotalAmountCamel
}

// UpdateOrderStatusInput defines the expected JSON structure for a status update
type UpdateOrderStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// AssignRiderInput defines the expected JSON structure for rider assignment
type AssignRiderInput struct {
	RiderID uuid.UUID `json:"rider_id" binding:"required"`
}

// CreateOrder creates an order, resolving or creating the customer and
// address inside one transaction so no partial state survives a failure.
func CreateOrder(c *gin.Context) {
	var input CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	items, subtotal, apiErr := buildItems(input.Items)
	if apiErr != nil {
		utils.RespondWithError(c, apiErr.code, apiErr.message)
		return
	}
	if input.Subtotal != nil {
		subtotal = *input.Subtotal
	}
	total := subtotal
	if override := input.totalOverride(); override != nil {
		total = *override
	}

	pickupDate, err := parseDate(input.pickupDate())
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	paymentStatus := input.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = models.PaymentStatusNotPaid
	}

	party := input.normalize()

	var order models.Order
	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	customer, apiErr := resolveCustomer(tx, party)
	if apiErr != nil {
		tx.Rollback()
		utils.RespondWithError(c, apiErr.code, apiErr.message)
		return
	}

	address, apiErr := resolveAddress(tx, customer, party)
	if apiErr != nil {
		tx.Rollback()
		utils.RespondWithError(c, apiErr.code, apiErr.message)
		return
	}

	orderNumber, err := uniqueNumber(tx, &models.Order{}, "order_number", utils.GenerateOrderNumber)
	if err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate order number")
		return
	}

	order = models.Order{
		OrderNumber:   orderNumber,
		CustomerID:    customer.ID,
		AddressID:     address.ID,
		Items:         items,
		Subtotal:      subtotal,
		TotalAmount:   total,
		PaymentMethod: input.paymentMethod(),
		PaymentStatus: paymentStatus,
		PickupDate:    pickupDate,
		TimeSlot:      input.timeSlot(),
		Notes:         input.Notes,
		Source:        input.Source,
		Status:        models.OrderStatusPending,
	}

	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create order: "+err.Error())
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create order")
		return
	}

	order.Customer = customer
	order.Address = address
	utils.RespondOK(c, http.StatusCreated, gin.H{"order": order})
}

// GetOrders lists orders with their customer, address and rider
func GetOrders(c *gin.Context) {
	query := config.DB.Model(&models.Order{}).
		Preload("Customer").Preload("Address").Preload("Rider")

	if status := c.Query("status"); status != "" {
		if !models.ValidOrderStatus(status) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid status filter")
			return
		}
		query = query.Where("status = ?", status)
	}
	if customerID := c.Query("customer_id"); customerID != "" {
		customerUUID, err := uuid.Parse(customerID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
			return
		}
		query = query.Where("customer_id = ?", customerUUID)
	}

	var orders []models.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}

	utils.RespondOK(c, http.StatusOK, gin.H{"orders": orders})
}

// GetOrder retrieves a specific order by ID with joins
func GetOrder(c *gin.Context) {
	orderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var order models.Order
	if err := config.DB.
		Preload("Customer").Preload("Address").Preload("Rider").
		First(&order, "id = ?", orderUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Order not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	utils.RespondOK(c, http.StatusOK, gin.H{"order": order})
}

// UpdateOrderStatus validates the status against the enumerated set and
// applies it. No transition graph is enforced beyond set membership.
func UpdateOrderStatus(c *gin.Context) {
	orderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var input UpdateOrderStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !models.ValidOrderStatus(input.Status) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order status: "+input.Status)
		return
	}

	var order models.Order
	if err := config.DB.First(&order, "id = ?", orderUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Order not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := config.DB.Model(&order).Update("status", input.Status).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update order status")
		return
	}

	order.Status = input.Status
	utils.RespondOK(c, http.StatusOK, gin.H{"order": order})
}

// AssignOrderRider attaches an active rider to an order and forces the
// status to assigned.
func AssignOrderRider(c *gin.Context) {
	orderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var input AssignRiderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var rider models.Rider
	if err := config.DB.First(&rider, "id = ? AND status = ?", input.RiderID, models.RiderStatusActive).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Rider not found or inactive")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var order models.Order
	if err := config.DB.First(&order, "id = ?", orderUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Order not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := config.DB.Model(&order).Updates(map[string]interface{}{
		"rider_id": rider.ID,
		"status":   models.OrderStatusAssigned,
	}).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to assign rider")
		return
	}

	order.RiderID = &rider.ID
	order.Status = models.OrderStatusAssigned
	order.Rider = &rider
	utils.RespondOK(c, http.StatusOK, gin.H{"order": order})
}
