// controllers/pickup.go
//
// Public, unauthenticated rider pickup flow. The bearer token issued at
// rider assignment is the sole authorization: it scopes every endpoint here
// to exactly one service request.
package controllers

import (
	"errors"
	"net/http"
	"time"

	"laundrypro-backend/config"
	"laundrypro-backend/models"
	"laundrypro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreatePickupOrderInput is the rider's confirmed cart.
type CreatePickupOrderInput struct {
	Items         []OrderItemInput `json:"items" binding:"required,min=1"`
	PaymentMethod string           `json:"payment_method" binding:"required"`
	Notes         string           `json:"notes"`
}

// pickupToken pulls the bearer token from the query string or header.
func pickupToken(c *gin.Context) string {
	if token := c.Query("token"); token != "" {
		return token
	}
	return c.GetHeader("X-Pickup-Token")
}

// requestByToken looks up a service request by exact token match and applies
// the shared lifecycle checks: 404 unknown, 410 expired, 410 consumed.
func requestByToken(db *gorm.DB, token string) (*models.ServiceRequest, *apiError) {
	if token == "" {
		return nil, newAPIError(http.StatusBadRequest, "Pickup token is required")
	}

	var request models.ServiceRequest
	if err := db.Preload("Customer").Preload("Address").Preload("Rider").
		First(&request, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newAPIError(http.StatusNotFound, "Pickup link not found")
		}
		return nil, newAPIError(http.StatusInternalServerError, "Database error")
	}

	if request.TokenExpired(time.Now()) {
		return nil, newAPIError(http.StatusGone, "Pickup link has expired")
	}
	if request.Status == models.RequestStatusCompleted {
		return nil, newAPIError(http.StatusGone, "Pickup already completed")
	}
	return &request, nil
}

// ValidatePickupToken returns the customer/address/rider projection for a
// valid token. The token never exposes any other customer's data.
func ValidatePickupToken(c *gin.Context) {
	request, apiErr := requestByToken(config.DB, pickupToken(c))
	if apiErr != nil {
		utils.RespondWithError(c, apiErr.code, apiErr.message)
		return
	}

	utils.RespondOK(c, http.StatusOK, gin.H{
		"serviceRequest": gin.H{
			"id":            request.ID,
			"requestNumber": request.RequestNumber,
			"serviceDate":   request.ServiceDate,
			"timeSlot":      request.TimeSlot,
			"notes":         request.Notes,
			"status":        request.Status,
		},
		"customer": request.Customer,
		"address":  request.Address,
		"rider":    request.Rider,
	})
}

// GetPickupCatalog returns the active catalog grouped by category for the
// rider's item picker, with optional search and category filters.
func GetPickupCatalog(c *gin.Context) {
	if _, apiErr := requestByToken(config.DB, pickupToken(c)); apiErr != nil {
		utils.RespondWithError(c, apiErr.code, apiErr.message)
		return
	}

	query := config.DB.Model(&models.Category{}).
		Where("status = ?", models.CatalogStatusActive).
		Preload("Subcategories", func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", models.CatalogStatusActive).Order("sort_order")
		}).
		Order("sort_order")

	if categoryID := c.Query("category_id"); categoryID != "" {
		categoryUUID, err := uuid.Parse(categoryID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid category ID format")
			return
		}
		query = query.Where("id = ?", categoryUUID)
	}

	search := c.Query("search")
	query = query.Preload("Subcategories.Services", func(db *gorm.DB) *gorm.DB {
		db = db.Where("status = ?", models.CatalogStatusActive).Order("sort_order")
		if search != "" {
			db = db.Where("name LIKE ?", "%"+search+"%")
		}
		return db
	})

	var categories []models.Category
	if err := query.Find(&categories).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve catalog")
		return
	}

	utils.RespondOK(c, http.StatusOK, gin.H{"catalog": categories})
}

// CreatePickupOrder converts the service request into an order. The token is
// re-validated inside the transaction and the request is completed with a
// conditional update, so two concurrent confirmations cannot both convert.
func CreatePickupOrder(c *gin.Context) {
	var input CreatePickupOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	items, subtotal, apiErr := buildItems(input.Items)
	if apiErr != nil {
		utils.RespondWithError(c, apiErr.code, apiErr.message)
		return
	}

	// Cash is collected by the rider on the spot; anything else is settled later.
	paymentStatus := models.PaymentStatusNotPaid
	if input.PaymentMethod == "cash" {
		paymentStatus = models.PaymentStatusPaid
	}

	token := pickupToken(c)

	var order models.Order
	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	request, apiErr := requestByToken(tx, token)
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

	notes := "Converted from service request " + request.RequestNumber
	if input.Notes != "" {
		notes = input.Notes + " | " + notes
	}

	// The rider already physically holds the items.
	order = models.Order{
		OrderNumber:   orderNumber,
		CustomerID:    request.CustomerID,
		AddressID:     request.AddressID,
		RiderID:       request.RiderID,
		Items:         items,
		Subtotal:      subtotal,
		TotalAmount:   subtotal,
		PaymentMethod: input.PaymentMethod,
		PaymentStatus: paymentStatus,
		Notes:         notes,
		Source:        "pickup",
		Status:        models.OrderStatusPickedUp,
	}

	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create order: "+err.Error())
		return
	}

	result := tx.Model(&models.ServiceRequest{}).
		Where("id = ? AND status <> ?", request.ID, models.RequestStatusCompleted).
		Updates(map[string]interface{}{
			"status":   models.RequestStatusCompleted,
			"order_id": order.ID,
		})
	if result.Error != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to complete service request")
		return
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusGone, "Pickup already completed")
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create order")
		return
	}

	order.Customer = request.Customer
	order.Address = request.Address
	order.Rider = request.Rider
	utils.RespondOK(c, http.StatusCreated, gin.H{
		"order":         order,
		"requestNumber": request.RequestNumber,
	})
}
