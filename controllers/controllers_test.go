package controllers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"laundrypro-backend/config"
	"laundrypro-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB swaps config.DB for a fresh in-memory database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Address{},
		&models.Rider{},
		&models.Category{},
		&models.Subcategory{},
		&models.Service{},
		&models.Order{},
		&models.ServiceRequest{},
		&models.Setting{},
	))

	config.DB = db
	return db
}

// newTestRouter registers the handlers without the auth middleware so tests
// exercise request handling, not JWT plumbing.
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	api := r.Group("/api")
	{
		api.POST("/customers", CreateCustomer)
		api.GET("/customers", GetCustomers)
		api.GET("/customers/:id", GetCustomer)
		api.PUT("/customers/:id", UpdateCustomer)
		api.GET("/customers/:id/addresses", GetCustomerAddresses)

		api.POST("/addresses", CreateAddress)
		api.PUT("/addresses/:id", UpdateAddress)
		api.DELETE("/addresses/:id", DeleteAddress)
		api.PUT("/addresses/:id/default", SetDefaultAddress)

		api.POST("/riders", CreateRider)
		api.GET("/riders", GetRiders)
		api.GET("/riders/:id", GetRider)
		api.GET("/riders/:id/orders", GetRiderOrders)
		api.PUT("/riders/:id", UpdateRider)
		api.DELETE("/riders/:id", DeleteRider)

		api.POST("/orders", CreateOrder)
		api.GET("/orders", GetOrders)
		api.GET("/orders/:id", GetOrder)
		api.PUT("/orders/:id/status", UpdateOrderStatus)
		api.PUT("/orders/:id/rider", AssignOrderRider)

		api.POST("/service-requests", CreateServiceRequest)
		api.GET("/service-requests", GetServiceRequests)
		api.GET("/service-requests/:id", GetServiceRequest)
		api.PATCH("/service-requests/:id", UpdateServiceRequest)
		api.PUT("/service-requests/:id/rider", AssignRequestRider)

		api.POST("/categories", CreateCategory)
		api.GET("/categories", GetCategories)
		api.PUT("/categories/:id", UpdateCategory)
		api.DELETE("/categories/:id", DeleteCategory)
		api.POST("/subcategories", CreateSubcategory)
		api.POST("/services", CreateCatalogService)
		api.GET("/catalog", GetCatalogGrouped)
		api.POST("/catalog/seed", SeedCatalog)
	}

	pickup := r.Group("/public/pickup")
	{
		pickup.GET("/validate", ValidatePickupToken)
		pickup.GET("/catalog", GetPickupCatalog)
		pickup.POST("/order", CreatePickupOrder)
	}

	return r
}

// performJSON issues a request with a JSON body against the router.
func performJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// performRaw issues a request with a raw JSON string body.
func performRaw(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func createTestCustomer(t *testing.T, db *gorm.DB, name, mobile string) models.Customer {
	t.Helper()

	customer := models.Customer{Name: name, Mobile: mobile}
	require.NoError(t, db.Create(&customer).Error)
	return customer
}

func createTestAddress(t *testing.T, db *gorm.DB, customer models.Customer, isDefault bool) models.Address {
	t.Helper()

	address := models.Address{
		CustomerID:   customer.ID,
		City:         "Riffa",
		Governorate:  "Central Governorate",
		LocationType: models.LocationTypeHome,
		IsDefault:    isDefault,
	}
	require.NoError(t, db.Create(&address).Error)
	return address
}

func createTestRider(t *testing.T, db *gorm.DB, name, status string) models.Rider {
	t.Helper()

	rider := models.Rider{Name: name, Mobile: "+97333001122", Status: status}
	require.NoError(t, db.Create(&rider).Error)
	return rider
}

func requireEnvelope(t *testing.T, w *httptest.ResponseRecorder, code int, success bool) map[string]interface{} {
	t.Helper()

	require.Equal(t, code, w.Code, "unexpected status, body: %s", w.Body.String())
	body := decodeBody(t, w)
	require.Equal(t, success, body["success"])
	return body
}
