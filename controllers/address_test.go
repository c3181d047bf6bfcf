package controllers

import (
	"net/http"
	"testing"

	"laundrypro-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func countDefaults(t *testing.T, db *gorm.DB, customerID interface{}) int64 {
	t.Helper()
	var count int64
	db.Model(&models.Address{}).
		Where("customer_id = ? AND is_default = ?", customerID, true).
		Count(&count)
	return count
}

func TestSetDefaultAddress_ClearsSiblings(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()
	customer := createTestCustomer(t, db, "Ali", "+97312345678")
	first := createTestAddress(t, db, customer, true)
	second := createTestAddress(t, db, customer, false)

	w := performJSON(t, r, http.MethodPut, "/api/addresses/"+second.ID.String()+"/default", nil)
	requireEnvelope(t, w, http.StatusOK, true)

	// Exactly one default survives, and it is the target
	assert.EqualValues(t, 1, countDefaults(t, db, customer.ID))

	var reloaded models.Address
	require.NoError(t, db.First(&reloaded, "id = ?", first.ID).Error)
	assert.False(t, reloaded.IsDefault)

	var reloadedSecond models.Address
	require.NoError(t, db.First(&reloadedSecond, "id = ?", second.ID).Error)
	assert.True(t, reloadedSecond.IsDefault)
}

func TestCreateAddress_DefaultDisplacesSiblings(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()
	customer := createTestCustomer(t, db, "Ali", "+97312345678")
	createTestAddress(t, db, customer, true)

	w := performJSON(t, r, http.MethodPost, "/api/addresses", gin.H{
		"customer_id":   customer.ID,
		"city":          "Manama",
		"governorate":   "Capital Governorate",
		"location_type": "office",
		"is_default":    true,
	})
	requireEnvelope(t, w, http.StatusCreated, true)

	assert.EqualValues(t, 1, countDefaults(t, db, customer.ID))
}

func TestDeleteAddress_BlockedWhenReferencedByOrder(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()
	customer := createTestCustomer(t, db, "Ali", "+97312345678")
	address := createTestAddress(t, db, customer, true)

	order := models.Order{
		OrderNumber: "ORD-20250110-BBBBB",
		CustomerID:  customer.ID,
		AddressID:   address.ID,
		Status:      models.OrderStatusPending,
	}
	require.NoError(t, db.Create(&order).Error)

	w := performJSON(t, r, http.MethodDelete, "/api/addresses/"+address.ID.String(), nil)
	requireEnvelope(t, w, http.StatusConflict, false)

	// The address is untouched
	var count int64
	db.Model(&models.Address{}).Where("id = ?", address.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestDeleteAddress_BlockedWhenReferencedByServiceRequest(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()
	customer := createTestCustomer(t, db, "Ali", "+97312345678")
	address := createTestAddress(t, db, customer, true)

	request := models.ServiceRequest{
		RequestNumber: "SR-20250110-BBBBB",
		CustomerID:    customer.ID,
		AddressID:     address.ID,
		Status:        models.RequestStatusPending,
	}
	require.NoError(t, db.Create(&request).Error)

	w := performJSON(t, r, http.MethodDelete, "/api/addresses/"+address.ID.String(), nil)
	requireEnvelope(t, w, http.StatusConflict, false)
}

func TestDeleteAddress_Unreferenced(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()
	customer := createTestCustomer(t, db, "Ali", "+97312345678")
	address := createTestAddress(t, db, customer, false)

	w := performJSON(t, r, http.MethodDelete, "/api/addresses/"+address.ID.String(), nil)
	requireEnvelope(t, w, http.StatusOK, true)

	var count int64
	db.Model(&models.Address{}).Where("id = ?", address.ID).Count(&count)
	assert.EqualValues(t, 0, count)
}
