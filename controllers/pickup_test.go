package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"laundrypro-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// createTokenizedRequest builds a confirmed service request carrying a live
// pickup token, mirroring the state right after rider assignment.
func createTokenizedRequest(t *testing.T, db *gorm.DB, token string) models.ServiceRequest {
	t.Helper()
	customer := createTestCustomer(t, db, "Ali", "+97312345678")
	address := createTestAddress(t, db, customer, true)
	rider := createTestRider(t, db, "Rider One", models.RiderStatusActive)

	expiresAt := time.Now().Add(96 * time.Hour)
	request := models.ServiceRequest{
		RequestNumber:  "SR-20250110-AAAAA",
		CustomerID:     customer.ID,
		AddressID:      address.ID,
		RiderID:        &rider.ID,
		Status:         models.RequestStatusConfirmed,
		Token:          &token,
		TokenExpiresAt: &expiresAt,
	}
	require.NoError(t, db.Create(&request).Error)
	return request
}

func createCatalogService(t *testing.T, db *gorm.DB, category, subcategory, service string, price float64) models.Service {
	t.Helper()
	cat := models.Category{Name: category, Status: models.CatalogStatusActive}
	require.NoError(t, db.Create(&cat).Error)
	sub := models.Subcategory{Name: subcategory, CategoryID: cat.ID, Status: models.CatalogStatusActive}
	require.NoError(t, db.Create(&sub).Error)
	svc := models.Service{Name: service, SubcategoryID: sub.ID, Price: price, Status: models.CatalogStatusActive}
	require.NoError(t, db.Create(&svc).Error)
	return svc
}

func TestValidatePickupToken_ReturnsScopedProjection(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()
	request := createTokenizedRequest(t, db, "a1b2c3")

	w := performJSON(t, r, http.MethodGet, "/public/pickup/validate?token=a1b2c3", nil)
	body := requireEnvelope(t, w, http.StatusOK, true)

	projection := body["serviceRequest"].(map[string]interface{})
	assert.Equal(t, request.RequestNumber, projection["requestNumber"])
	assert.Equal(t, models.RequestStatusConfirmed, projection["status"])

	customer := body["customer"].(map[string]interface{})
	assert.Equal(t, "Ali", customer["name"])
	address := body["address"].(map[string]interface{})
	assert.Equal(t, "Riffa", address["city"])
}

func TestValidatePickupToken_MissingAndUnknown(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()
	createTokenizedRequest(t, db, "a1b2c3")

	w := performJSON(t, r, http.MethodGet, "/public/pickup/validate", nil)
	requireEnvelope(t, w, http.StatusBadRequest, false)

	w = performJSON(t, r, http.MethodGet, "/public/pickup/validate?token=nosuch", nil)
	requireEnvelope(t, w, http.StatusNotFound, false)
}

func TestValidatePickupToken_ExpiredIsGone(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()
	request := createTokenizedRequest(t, db, "a1b2c3")

	past := time.Now().Add(-time.Hour)
	require.NoError(t, db.Model(&request).Update("token_expires_at", past).Error)

	w := performJSON(t, r, http.MethodGet, "/public/pickup/validate?token=a1b2c3", nil)
	body := requireEnvelope(t, w, http.StatusGone, false)
	assert.Equal(t, "Pickup link has expired", body["message"])
}

func TestGetPickupCatalog_FiltersActiveAndSearch(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()
	createTokenizedRequest(t, db, "a1b2c3")

	createCatalogService(t, db, "Wash & Fold", "Regular", "Thobe", 1.5)
	createCatalogService(t, db, "Dry Cleaning", "Delicates", "Silk Dress", 3.0)

	// Inactive category must not appear at all
	inactive := models.Category{Name: "Retired", Status: models.CatalogStatusInactive}
	require.NoError(t, db.Create(&inactive).Error)

	w := performJSON(t, r, http.MethodGet, "/public/pickup/catalog?token=a1b2c3", nil)
	body := requireEnvelope(t, w, http.StatusOK, true)

	catalog := body["catalog"].([]interface{})
	require.Len(t, catalog, 2)
	names := []string{
		catalog[0].(map[string]interface{})["name"].(string),
		catalog[1].(map[string]interface{})["name"].(string),
	}
	assert.NotContains(t, names, "Retired")

	// Search narrows services, not categories
	w = performJSON(t, r, http.MethodGet, "/public/pickup/catalog?token=a1b2c3&search=Silk", nil)
	body = requireEnvelope(t, w, http.StatusOK, true)
	for _, entry := range body["catalog"].([]interface{}) {
		category := entry.(map[string]interface{})
		for _, s := range category["subcategories"].([]interface{}) {
			sub := s.(map[string]interface{})
			services, _ := sub["services"].([]interface{})
			for _, svc := range services {
				assert.Equal(t, "Silk Dress", svc.(map[string]interface{})["name"])
			}
		}
	}

	// Catalog is token gated like every other pickup endpoint
	w = performJSON(t, r, http.MethodGet, "/public/pickup/catalog?token=nosuch", nil)
	requireEnvelope(t, w, http.StatusNotFound, false)
}

func TestCreatePickupOrder_ConvertsRequest(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()
	request := createTokenizedRequest(t, db, "a1b2c3")

	w := performJSON(t, r, http.MethodPost, "/public/pickup/order?token=a1b2c3", gin.H{
		"items": []gin.H{
			{"name": "Thobe", "price": 1.5, "quantity": 4},
			{"name": "Silk Dress", "price": 3.0, "quantity": 1},
		},
		"payment_method": "cash",
	})
	body := requireEnvelope(t, w, http.StatusCreated, true)

	order := body["order"].(map[string]interface{})
	assert.Regexp(t, orderNumberPattern, order["orderNumber"])
	assert.Equal(t, models.OrderStatusPickedUp, order["status"])
	assert.Equal(t, "pickup", order["source"])
	assert.InDelta(t, 9.0, order["subtotal"], 0.0001)
	assert.InDelta(t, 9.0, order["totalAmount"], 0.0001)
	// Cash is collected at the door
	assert.Equal(t, models.PaymentStatusPaid, order["paymentStatus"])
	assert.Contains(t, order["notes"], request.RequestNumber)
	assert.Equal(t, request.RequestNumber, body["requestNumber"])

	var reloaded models.ServiceRequest
	require.NoError(t, db.First(&reloaded, "id = ?", request.ID).Error)
	assert.Equal(t, models.RequestStatusCompleted, reloaded.Status)
	require.NotNil(t, reloaded.OrderID)

	var stored models.Order
	require.NoError(t, db.First(&stored, "id = ?", reloaded.OrderID).Error)
	assert.Equal(t, request.CustomerID, stored.CustomerID)
	assert.Equal(t, request.AddressID, stored.AddressID)
	require.NotNil(t, stored.RiderID)
	assert.Equal(t, *request.RiderID, *stored.RiderID)
}

func TestCreatePickupOrder_NonCashStaysUnpaid(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()
	createTokenizedRequest(t, db, "a1b2c3")

	w := performJSON(t, r, http.MethodPost, "/public/pickup/order?token=a1b2c3", gin.H{
		"items":          []gin.H{{"name": "Thobe", "price": 1.5, "quantity": 1}},
		"payment_method": "card",
	})
	body := requireEnvelope(t, w, http.StatusCreated, true)
	order := body["order"].(map[string]interface{})
	assert.Equal(t, models.PaymentStatusNotPaid, order["paymentStatus"])
}

func TestCreatePickupOrder_SecondSubmitIsGone(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()
	request := createTokenizedRequest(t, db, "a1b2c3")

	payload := gin.H{
		"items":          []gin.H{{"name": "Thobe", "price": 1.5, "quantity": 1}},
		"payment_method": "cash",
	}
	w := performJSON(t, r, http.MethodPost, "/public/pickup/order?token=a1b2c3", payload)
	requireEnvelope(t, w, http.StatusCreated, true)

	// The consumed token no longer converts or validates
	w = performJSON(t, r, http.MethodPost, "/public/pickup/order?token=a1b2c3", payload)
	body := requireEnvelope(t, w, http.StatusGone, false)
	assert.Equal(t, "Pickup already completed", body["message"])

	w = performJSON(t, r, http.MethodGet, "/public/pickup/validate?token=a1b2c3", nil)
	requireEnvelope(t, w, http.StatusGone, false)

	// Exactly one order was created
	var count int64
	require.NoError(t, db.Model(&models.Order{}).
		Where("customer_id = ?", request.CustomerID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreatePickupOrder_ExpiredTokenRejected(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()
	request := createTokenizedRequest(t, db, "a1b2c3")

	past := time.Now().Add(-time.Hour)
	require.NoError(t, db.Model(&request).Update("token_expires_at", past).Error)

	w := performJSON(t, r, http.MethodPost, "/public/pickup/order?token=a1b2c3", gin.H{
		"items":          []gin.H{{"name": "Thobe", "price": 1.5, "quantity": 1}},
		"payment_method": "cash",
	})
	requireEnvelope(t, w, http.StatusGone, false)

	var reloaded models.ServiceRequest
	require.NoError(t, db.First(&reloaded, "id = ?", request.ID).Error)
	assert.Equal(t, models.RequestStatusConfirmed, reloaded.Status)
	assert.Nil(t, reloaded.OrderID)
}

func TestCreatePickupOrder_RejectsBadItems(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()
	request := createTokenizedRequest(t, db, "a1b2c3")

	w := performJSON(t, r, http.MethodPost, "/public/pickup/order?token=a1b2c3", gin.H{
		"items":          []gin.H{{"name": "Thobe", "price": 1.5, "quantity": 0}},
		"payment_method": "cash",
	})
	body := requireEnvelope(t, w, http.StatusBadRequest, false)
	assert.Contains(t, body["message"], "Item quantity must be positive")

	// Empty cart fails binding
	w = performJSON(t, r, http.MethodPost, "/public/pickup/order?token=a1b2c3", gin.H{
		"items":          []gin.H{},
		"payment_method": "cash",
	})
	requireEnvelope(t, w, http.StatusBadRequest, false)

	var reloaded models.ServiceRequest
	require.NoError(t, db.First(&reloaded, "id = ?", request.ID).Error)
	assert.Equal(t, models.RequestStatusConfirmed, reloaded.Status)
}

func TestPickupToken_HeaderFallback(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()
	createTokenizedRequest(t, db, "a1b2c3")

	req, err := http.NewRequest(http.MethodGet, "/public/pickup/validate", nil)
	require.NoError(t, err)
	req.Header.Set("X-Pickup-Token", "a1b2c3")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	requireEnvelope(t, w, http.StatusOK, true)
}
