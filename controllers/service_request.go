package controllers

import (
	"errors"
	"net/http"
	"os"
	"time"

	"laundrypro-backend/config"
	"laundrypro-backend/models"
	"laundrypro-backend/services"
	"laundrypro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notifier dispatches WhatsApp messages for rider assignments and is wired
// in main. A nil notifier simply skips dispatch (tests run without Twilio).
var Notifier *services.NotificationService

// CreateServiceRequestInput accepts the same multi-shape payload as orders.
type CreateServiceRequestInput struct {
	CustomerID *uuid.UUID       `json:"customer_id"`
	Customer   *CustomerPayload `json:"customer"`
	AddressID  *uuid.UUID       `json:"address_id"`
	Address    *AddressPayload  `json:"address"`

	// camelCase variants from the external channel
	CustomerIDCamel *uuid.UUID       `json:"customerId"`
	CustomerCamel   *CustomerPayload `json:"customerDetails"`
	AddressIDCamel  *uuid.UUID       `json:"addressId"`
	AddressCamel    *AddressPayload  `json:"pickupAddress"`

	ServiceDate      string `json:"service_date"`
	ServiceDateCamel string `json:"serviceDate"`
	TimeSlot         string `json:"time_slot"`
	TimeSlotCamel    string `json:"timeSlot"`
	Notes            string `json:"notes"`
}

func (in *CreateServiceRequestInput) normalize() *partyPayload {
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

func (in *CreateServiceRequestInput) serviceDate() string {
	if in.ServiceDate != "" {
		return in.ServiceDate
	}
	return in.ServiceDateCamel
}

func (in *CreateServiceRequestInput) timeSlot() string {
	if in.TimeSlot != "" {
		return in.TimeSlot
	}
	return in.TimeSlotCamel
}

// UpdateServiceRequestInput defines the partial patch shape.
type UpdateServiceRequestInput struct {
	ServiceDate *string `json:"service_date"`
	TimeSlot    *string `json:"time_slot"`
	Notes       *string `json:"notes"`
	Status      *string `json:"status"`
}

// CreateServiceRequest books a scheduled pickup, resolving or creating the
// customer and address in one transaction.
func CreateServiceRequest(c *gin.Context) {
	var input CreateServiceRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	serviceDate, err := parseDate(input.serviceDate())
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	party := input.normalize()

	var request models.ServiceRequest
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

	requestNumber, err := uniqueNumber(tx, &models.ServiceRequest{}, "request_number", utils.GenerateRequestNumber)
	if err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate request number")
		return
	}

	request = models.ServiceRequest{
		RequestNumber: requestNumber,
		CustomerID:    customer.ID,
		AddressID:     address.ID,
		ServiceDate:   serviceDate,
		TimeSlot:      input.timeSlot(),
		Notes:         input.Notes,
		Status:        models.RequestStatusPending,
	}

	if err := tx.Create(&request).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create service request: "+err.Error())
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create service request")
		return
	}

	request.Customer = customer
	request.Address = address
	utils.RespondOK(c, http.StatusCreated, gin.H{"serviceRequest": request})
}

// GetServiceRequests lists requests together with per-status counts
func GetServiceRequests(c *gin.Context) {
	query := config.DB.Model(&models.ServiceRequest{}).
		Preload("Customer").Preload("Address").Preload("Rider")
	if status := c.Query("status"); status != "" {
		if !models.ValidRequestStatus(status) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid status filter")
			return
		}
		query = query.Where("status = ?", status)
	}

	var requests []models.ServiceRequest
	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve service requests")
		return
	}

	type statusCount struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	var counts []statusCount
	if err := config.DB.Model(&models.ServiceRequest{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&counts).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to count service requests")
		return
	}

	utils.RespondOK(c, http.StatusOK, gin.H{
		"serviceRequests": requests,
		"statusCounts":    counts,
	})
}

// GetServiceRequest retrieves a request with its linked order, if any
func GetServiceRequest(c *gin.Context) {
	requestUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service request ID format")
		return
	}

	var request models.ServiceRequest
	if err := config.DB.
		Preload("Customer").Preload("Address").Preload("Rider").Preload("Order").
		First(&request, "id = ?", requestUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service request not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	utils.RespondOK(c, http.StatusOK, gin.H{"serviceRequest": request})
}

// UpdateServiceRequest applies a partial field patch
func UpdateServiceRequest(c *gin.Context) {
	requestUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service request ID format")
		return
	}

	var input UpdateServiceRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var request models.ServiceRequest
	if err := config.DB.First(&request, "id = ?", requestUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service request not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.ServiceDate != nil {
		serviceDate, err := parseDate(*input.ServiceDate)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		request.ServiceDate = serviceDate
	}
	if input.TimeSlot != nil {
		request.TimeSlot = *input.TimeSlot
	}
	if input.Notes != nil {
		request.Notes = *input.Notes
	}
	if input.Status != nil {
		if !models.ValidRequestStatus(*input.Status) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid service request status: "+*input.Status)
			return
		}
		request.Status = *input.Status
	}

	if err := config.DB.Save(&request).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update service request")
		return
	}

	utils.RespondOK(c, http.StatusOK, gin.H{"serviceRequest": request})
}

// AssignRequestRider verifies the rider is active, issues a fresh pickup
// token with a settings-driven expiry, confirms the request in a single
// update, then best-effort notifies the rider over WhatsApp. Message
// delivery failures never fail the assignment.
func AssignRequestRider(c *gin.Context) {
	requestUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service request ID format")
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

	var request models.ServiceRequest
	if err := config.DB.Preload("Customer").Preload("Address").
		First(&request, "id = ?", requestUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service request not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if request.Status == models.RequestStatusCompleted {
		utils.RespondWithError(c, http.StatusConflict, "Service request already completed")
		return
	}

	token := utils.GeneratePickupToken()
	expiryHours := models.GetSettingInt(config.DB, models.SettingRiderLinkExpiryHours, models.DefaultRiderLinkExpiryHours)
	expiresAt := time.Now().Add(time.Duration(expiryHours) * time.Hour)

	if err := config.DB.Model(&request).Updates(map[string]interface{}{
		"rider_id":         rider.ID,
		"token":            token,
		"token_expires_at": expiresAt,
		"status":           models.RequestStatusConfirmed,
	}).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to assign rider")
		return
	}

	request.RiderID = &rider.ID
	request.Token = &token
	request.TokenExpiresAt = &expiresAt
	request.Status = models.RequestStatusConfirmed
	request.Rider = &rider

	pickupURL := pickupBaseURL() + "?token=" + token

	notificationsSent := false
	if Notifier != nil {
		notificationsSent = Notifier.SendPickupAssignment(&request, &rider, pickupURL)
	}

	utils.RespondOK(c, http.StatusOK, gin.H{
		"serviceRequest":    request,
		"pickupUrl":         pickupURL,
		"notificationsSent": notificationsSent,
	})
}

func pickupBaseURL() string {
	if base := os.Getenv("PICKUP_BASE_URL"); base != "" {
		return base
	}
	return "http://localhost:3000/pickup"
}
