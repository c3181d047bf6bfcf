package controllers

import (
	"net/http"
	"testing"

	"laundrypro-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCustomer_Success(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()

	w := performJSON(t, r, http.MethodPost, "/api/customers", gin.H{
		"name":   "Ali",
		"mobile": "+97312345678",
	})
	body := requireEnvelope(t, w, http.StatusCreated, true)

	customer := body["customer"].(map[string]interface{})
	assert.Equal(t, "Ali", customer["name"])
	assert.Equal(t, "+97312345678", customer["mobile"])

	var count int64
	db.Model(&models.Customer{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestCreateCustomer_DuplicateMobileConflict(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()
	createTestCustomer(t, db, "Ali", "+97312345678")

	w := performJSON(t, r, http.MethodPost, "/api/customers", gin.H{
		"name":   "Someone Else",
		"mobile": "+97312345678",
	})
	requireEnvelope(t, w, http.StatusConflict, false)

	// No duplicate row was created
	var count int64
	db.Model(&models.Customer{}).Where("mobile = ?", "+97312345678").Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestCreateCustomer_InvalidMobile(t *testing.T) {
	setupTestDB(t)
	r := newTestRouter()

	w := performJSON(t, r, http.MethodPost, "/api/customers", gin.H{
		"name":   "Ali",
		"mobile": "not-a-number",
	})
	requireEnvelope(t, w, http.StatusBadRequest, false)
}

func TestUpdateCustomer_MobileUniquenessExcludesSelf(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()
	first := createTestCustomer(t, db, "Ali", "+97312345678")
	createTestCustomer(t, db, "Fatima", "+97399887766")

	// Re-submitting the customer's own mobile is fine
	w := performJSON(t, r, http.MethodPut, "/api/customers/"+first.ID.String(), gin.H{
		"name":   "Ali Updated",
		"mobile": "+97312345678",
	})
	requireEnvelope(t, w, http.StatusOK, true)

	// Taking another customer's mobile conflicts
	w = performJSON(t, r, http.MethodPut, "/api/customers/"+first.ID.String(), gin.H{
		"mobile": "+97399887766",
	})
	requireEnvelope(t, w, http.StatusConflict, false)
}

func TestGetCustomers_IncludesAggregateCounts(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()
	customer := createTestCustomer(t, db, "Ali", "+97312345678")
	address := createTestAddress(t, db, customer, true)

	order := models.Order{
		OrderNumber: "ORD-20250110-AAAAA",
		CustomerID:  customer.ID,
		AddressID:   address.ID,
		Status:      models.OrderStatusPending,
	}
	require.NoError(t, db.Create(&order).Error)

	w := performJSON(t, r, http.MethodGet, "/api/customers", nil)
	body := requireEnvelope(t, w, http.StatusOK, true)

	customers := body["customers"].([]interface{})
	require.Len(t, customers, 1)
	row := customers[0].(map[string]interface{})
	assert.EqualValues(t, 1, row["addressCount"])
	assert.EqualValues(t, 1, row["orderCount"])
	assert.EqualValues(t, 0, row["serviceRequestCount"])
}

func TestGetCustomer_NotFound(t *testing.T) {
	setupTestDB(t)
	r := newTestRouter()

	w := performJSON(t, r, http.MethodGet, "/api/customers/6dd53b6a-7e01-4dca-97e4-cf4f7c0ef8a4", nil)
	requireEnvelope(t, w, http.StatusNotFound, false)
}
