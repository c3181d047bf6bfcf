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

// CreateCustomerInput defines the expected JSON structure for creating a customer
type CreateCustomerInput struct {
	Name   string `json:"name" binding:"required"`
	Mobile string `json:"mobile" binding:"required"`
}

// UpdateCustomerInput defines the expected JSON structure for updating a customer
type UpdateCustomerInput struct {
	Name   *string `json:"name"`
	Mobile *string `json:"mobile"`
}

// customerListRow carries a customer with its aggregate counts.
type customerListRow struct {
	models.Customer
	AddressCount        int64 `json:"addressCount"`
	OrderCount          int64 `json:"orderCount"`
	ServiceRequestCount int64 `json:"serviceRequestCount"`
}

// CreateCustomer creates a new customer
func CreateCustomer(c *gin.Context) {
	var input CreateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// Validate mobile format
	if !utils.ValidatePhone(input.Mobile) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid mobile number format")
		return
	}

	// Check if mobile already exists
	var existingCustomer models.Customer
	if err := config.DB.Where("mobile = ?", input.Mobile).
		First(&existingCustomer).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Customer with this mobile number already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	customer := models.Customer{
		Name:   input.Name,
		Mobile: input.Mobile,
	}

	if err := config.DB.Create(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondWithError(c, http.StatusConflict, "Customer with this mobile number already exists")
			return
		}
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create customer")
		return
	}

	utils.RespondOK(c, http.StatusCreated, gin.H{"customer": customer})
}

// GetCustomers retrieves all customers with address/order/request counts
func GetCustomers(c *gin.Context) {
	var rows []customerListRow
	err := config.DB.Model(&models.Customer{}).
		Select(`customers.*,
			(SELECT count(*) FROM addresses WHERE addresses.customer_id = customers.id) AS address_count,
			(SELECT count(*) FROM orders WHERE orders.customer_id = customers.id) AS order_count,
			(SELECT count(*) FROM service_requests WHERE service_requests.customer_id = customers.id) AS service_request_count`).
		Order("customers.created_at DESC").
		Find(&rows).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve customers")
		return
	}

	utils.RespondOK(c, http.StatusOK, gin.H{"customers": rows})
}

// GetCustomer retrieves a customer with their addresses and orders
func GetCustomer(c *gin.Context) {
	customerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	var customer models.Customer
	if err := config.DB.
		Preload("Addresses").
		Preload("Orders", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		First(&customer, "id = ?", customerUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	utils.RespondOK(c, http.StatusOK, gin.H{"customer": customer})
}

// UpdateCustomer updates an existing customer
func UpdateCustomer(c *gin.Context) {
	customerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	var input UpdateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var customer models.Customer
	if err := config.DB.First(&customer, "id = ?", customerUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		customer.Name = *input.Name
	}
	if input.Mobile != nil {
		if !utils.ValidatePhone(*input.Mobile) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid mobile number format")
			return
		}

		// Re-check uniqueness excluding the customer itself
		if customer.Mobile != *input.Mobile {
			var existingCustomer models.Customer
			if err := config.DB.Where("mobile = ? AND id <> ?", *input.Mobile, customer.ID).
				First(&existingCustomer).Error; err == nil {
				utils.RespondWithError(c, http.StatusConflict, "Another customer with this mobile number already exists")
				return
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
				return
			}
		}
		customer.Mobile = *input.Mobile
	}

	if err := config.DB.Save(&customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update customer")
		return
	}

	utils.RespondOK(c, http.StatusOK, gin.H{"customer": customer})
}
