package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"laundrypro-backend/config"
	"laundrypro-backend/models"
	"laundrypro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateRiderInput defines the expected JSON structure for creating a rider
type CreateRiderInput struct {
	Name   string `json:"name" binding:"required"`
	Mobile string `json:"mobile" binding:"required"`
}

// UpdateRiderInput defines the expected JSON structure for updating a rider
type UpdateRiderInput struct {
	Name   *string `json:"name"`
	Mobile *string `json:"mobile"`
	Status *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

// riderStats aggregates a rider's order workload.
type riderStats struct {
	TotalOrders     int64 `json:"totalOrders"`
	AssignedOrders  int64 `json:"assignedOrders"`
	PickedUpOrders  int64 `json:"pickedUpOrders"`
	DeliveredOrders int64 `json:"deliveredOrders"`
}

// CreateRider creates a new rider
func CreateRider(c *gin.Context) {
	var input CreateRiderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePhone(input.Mobile) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid mobile number format")
		return
	}

	rider := models.Rider{
		Name:   input.Name,
		Mobile: input.Mobile,
		Status: models.RiderStatusActive,
	}

	if err := config.DB.Create(&rider).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create rider")
		return
	}

	utils.RespondOK(c, http.StatusCreated, gin.H{"rider": rider})
}

// GetRiders lists riders, optionally filtered by status
func GetRiders(c *gin.Context) {
	query := config.DB.Model(&models.Rider{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var riders []models.Rider
	if err := query.Order("created_at DESC").Find(&riders).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve riders")
		return
	}

	utils.RespondOK(c, http.StatusOK, gin.H{"riders": riders})
}

// GetRider retrieves a rider with order stats and recent orders
func GetRider(c *gin.Context) {
	riderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid rider ID format")
		return
	}

	var rider models.Rider
	if err := config.DB.First(&rider, "id = ?", riderUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Rider not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var stats riderStats
	base := config.DB.Model(&models.Order{}).Where("rider_id = ?", riderUUID)
	base.Session(&gorm.Session{}).Count(&stats.TotalOrders)
	base.Session(&gorm.Session{}).Where("status = ?", models.OrderStatusAssigned).Count(&stats.AssignedOrders)
	base.Session(&gorm.Session{}).Where("status = ?", models.OrderStatusPickedUp).Count(&stats.PickedUpOrders)
	base.Session(&gorm.Session{}).Where("status = ?", models.OrderStatusDelivered).Count(&stats.DeliveredOrders)

	var recentOrders []models.Order
	if err := config.DB.Preload("Customer").Preload("Address").
		Where("rider_id = ?", riderUUID).
		Order("created_at DESC").Limit(10).
		Find(&recentOrders).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve rider orders")
		return
	}

	utils.RespondOK(c, http.StatusOK, gin.H{
		"rider":        rider,
		"stats":        stats,
		"recentOrders": recentOrders,
	})
}

// GetRiderOrders lists a rider's orders with pagination and optional status filter
func GetRiderOrders(c *gin.Context) {
	riderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid rider ID format")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := config.DB.Model(&models.Order{}).Where("rider_id = ?", riderUUID)
	if status := c.Query("status"); status != "" {
		if !models.ValidOrderStatus(status) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid status filter")
			return
		}
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	var orders []models.Order
	if err := query.Preload("Customer").Preload("Address").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&orders).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}

	utils.RespondOK(c, http.StatusOK, gin.H{
		"orders": orders,
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}

// UpdateRider updates an existing rider
func UpdateRider(c *gin.Context) {
	riderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid rider ID format")
		return
	}

	var input UpdateRiderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var rider models.Rider
	if err := config.DB.First(&rider, "id = ?", riderUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Rider not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		rider.Name = *input.Name
	}
	if input.Mobile != nil {
		if !utils.ValidatePhone(*input.Mobile) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid mobile number format")
			return
		}
		rider.Mobile = *input.Mobile
	}
	if input.Status != nil {
		rider.Status = *input.Status
	}

	if err := config.DB.Save(&rider).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update rider")
		return
	}

	utils.RespondOK(c, http.StatusOK, gin.H{"rider": rider})
}

// DeleteRider soft-deletes a rider by flipping its status to inactive.
// Order and service request history keeps pointing at the rider row.
func DeleteRider(c *gin.Context) {
	riderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid rider ID format")
		return
	}

	result := config.DB.Model(&models.Rider{}).
		Where("id = ?", riderUUID).
		Update("status", models.RiderStatusInactive)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete rider")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Rider not found")
		return
	}

	utils.RespondOK(c, http.StatusOK, gin.H{"message": "Rider deactivated successfully"})
}
