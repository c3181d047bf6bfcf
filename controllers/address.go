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

// CreateAddressInput defines the expected JSON structure for creating an address
type CreateAddressInput struct {
	CustomerID   uuid.UUID `json:"customer_id" binding:"required"`
	Formatted    string    `json:"formatted"`
	Block        string    `json:"block"`
	Road         string    `json:"road"`
	Building     string    `json:"building"`
	Flat         string    `json:"flat"`
	Floor        string    `json:"floor"`
	City         string    `json:"city"`
	Governorate  string    `json:"governorate"`
	Latitude     *float64  `json:"latitude"`
	Longitude    *float64  `json:"longitude"`
	PlaceID      string    `json:"place_id"`
	LocationType string    `json:"location_type" binding:"omitempty,oneof=home office other"`
	IsDefault    bool      `json:"is_default"`
}

// UpdateAddressInput defines the expected JSON structure for updating an address
type UpdateAddressInput struct {
	Formatted    *string  `json:"formatted"`
	Block        *string  `json:"block"`
	Road         *string  `json:"road"`
	Building     *string  `json:"building"`
	Flat         *string  `json:"flat"`
	Floor        *string  `json:"floor"`
	City         *string  `json:"city"`
	Governorate  *string  `json:"governorate"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	PlaceID      *string  `json:"place_id"`
	LocationType *string  `json:"location_type" binding:"omitempty,oneof=home office other"`
}

// CreateAddress creates a new address for a customer
func CreateAddress(c *gin.Context) {
	var input CreateAddressInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var customer models.Customer
	if err := config.DB.First(&customer, "id = ?", input.CustomerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	locationType := input.LocationType
	if locationType == "" {
		locationType = models.LocationTypeHome
	}

	address := models.Address{
		CustomerID:   input.CustomerID,
		Formatted:    input.Formatted,
		Block:        input.Block,
		Road:         input.Road,
		Building:     input.Building,
		Flat:         input.Flat,
		Floor:        input.Floor,
		City:         input.City,
		Governorate:  input.Governorate,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		PlaceID:      input.PlaceID,
		LocationType: locationType,
		IsDefault:    input.IsDefault,
	}

	// A default address must displace every sibling default in the same
	// transaction, never leaving two defaults visible after commit.
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if input.IsDefault {
			if err := tx.Model(&models.Address{}).
				Where("customer_id = ?", input.CustomerID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&address).Error
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create address")
		return
	}

	utils.RespondOK(c, http.StatusCreated, gin.H{"address": address})
}

// GetCustomerAddresses lists all addresses belonging to a customer
func GetCustomerAddresses(c *gin.Context) {
	customerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	var addresses []models.Address
	if err := config.DB.Where("customer_id = ?", customerUUID).
		Order("is_default DESC, created_at DESC").
		Find(&addresses).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve addresses")
		return
	}

	utils.RespondOK(c, http.StatusOK, gin.H{"addresses": addresses})
}

// UpdateAddress updates an existing address
func UpdateAddress(c *gin.Context) {
	addressUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid address ID format")
		return
	}

	var input UpdateAddressInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var address models.Address
	if err := config.DB.First(&address, "id = ?", addressUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Address not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Formatted != nil {
		address.Formatted = *input.Formatted
	}
	if input.Block != nil {
		address.Block = *input.Block
	}
	if input.Road != nil {
		address.Road = *input.Road
	}
	if input.Building != nil {
		address.Building = *input.Building
	}
	if input.Flat != nil {
		address.Flat = *input.Flat
	}
	if input.Floor != nil {
		address.Floor = *input.Floor
	}
	if input.City != nil {
		address.City = *input.City
	}
	if input.Governorate != nil {
		address.Governorate = *input.Governorate
	}
	if input.Latitude != nil {
		address.Latitude = input.Latitude
	}
	if input.Longitude != nil {
		address.Longitude = input.Longitude
	}
	if input.PlaceID != nil {
		address.PlaceID = *input.PlaceID
	}
	if input.LocationType != nil {
		address.LocationType = *input.LocationType
	}

	if err := config.DB.Save(&address).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update address")
		return
	}

	utils.RespondOK(c, http.StatusOK, gin.H{"address": address})
}

// DeleteAddress removes an address unless an order or service request still references it
func DeleteAddress(c *gin.Context) {
	addressUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid address ID format")
		return
	}

	var address models.Address
	if err := config.DB.First(&address, "id = ?", addressUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Address not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var orderCount int64
	if err := config.DB.Model(&models.Order{}).
		Where("address_id = ?", addressUUID).Count(&orderCount).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	var requestCount int64
	if err := config.DB.Model(&models.ServiceRequest{}).
		Where("address_id = ?", addressUUID).Count(&requestCount).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	if orderCount > 0 || requestCount > 0 {
		utils.RespondWithError(c, http.StatusConflict, "Address is referenced by orders or service requests and cannot be deleted")
		return
	}

	if err := config.DB.Delete(&address).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete address")
		return
	}

	utils.RespondOK(c, http.StatusOK, gin.H{"message": "Address deleted successfully"})
}

// SetDefaultAddress marks an address as the customer's default, clearing
// is_default on every sibling within the same transaction
func SetDefaultAddress(c *gin.Context) {
	addressUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid address ID format")
		return
	}

	var address models.Address
	if err := config.DB.First(&address, "id = ?", addressUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Address not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Address{}).
			Where("customer_id = ? AND id <> ?", address.CustomerID, address.ID).
			Update("is_default", false).Error; err != nil {
			return err
		}
		return tx.Model(&address).Update("is_default", true).Error
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to set default address")
		return
	}

	address.IsDefault = true
	utils.RespondOK(c, http.StatusOK, gin.H{"address": address})
}
