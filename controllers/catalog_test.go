package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"laundrypro-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCategory_DuplicateNameConflicts(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()

	w := performJSON(t, r, http.MethodPost, "/api/categories", gin.H{"name": "Wash & Fold"})
	requireEnvelope(t, w, http.StatusCreated, true)

	w = performJSON(t, r, http.MethodPost, "/api/categories", gin.H{"name": "Wash & Fold"})
	requireEnvelope(t, w, http.StatusConflict, false)

	var count int64
	require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDeleteCategory_CascadesToServices(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()
	service := createCatalogService(t, db, "Wash & Fold", "Regular", "Thobe", 1.5)

	var subcategory models.Subcategory
	require.NoError(t, db.First(&subcategory, "id = ?", service.SubcategoryID).Error)

	w := performJSON(t, r, http.MethodDelete, "/api/categories/"+subcategory.CategoryID.String(), nil)
	requireEnvelope(t, w, http.StatusOK, true)

	var subs, services int64
	require.NoError(t, db.Model(&models.Subcategory{}).Count(&subs).Error)
	require.NoError(t, db.Model(&models.Service{}).Count(&services).Error)
	assert.Zero(t, subs)
	assert.Zero(t, services)
}

func TestGetCatalogGrouped_ReturnsFullTree(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()
	createCatalogService(t, db, "Wash & Fold", "Regular", "Thobe", 1.5)

	w := performJSON(t, r, http.MethodGet, "/api/catalog", nil)
	body := requireEnvelope(t, w, http.StatusOK, true)

	catalog := body["catalog"].([]interface{})
	require.Len(t, catalog, 1)
	category := catalog[0].(map[string]interface{})
	assert.Equal(t, "Wash & Fold", category["name"])
	subcategories := category["subcategories"].([]interface{})
	require.Len(t, subcategories, 1)
	services := subcategories[0].(map[string]interface{})["services"].([]interface{})
	require.Len(t, services, 1)
	assert.Equal(t, "Thobe", services[0].(map[string]interface{})["name"])
}

func TestSeedCatalog_CreatesAndSkips(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()

	seed := `{
		"categories": [
			{
				"name": "Wash & Fold",
				"sort_order": 1,
				"subcategories": [
					{
						"name": "Regular",
						"sort_order": 1,
						"services": [
							{"name": "Thobe", "price": 1.5, "service_type": "piece", "sort_order": 1},
							{"name": "Shirt", "price": 0.8, "service_type": "piece", "sort_order": 2}
						]
					}
				]
			},
			{"name": "Dry Cleaning", "sort_order": 2, "subcategories": []}
		]
	}`
	path := filepath.Join(t.TempDir(), "services.json")
	require.NoError(t, os.WriteFile(path, []byte(seed), 0o644))
	t.Setenv("CATALOG_FILE", path)

	w := performJSON(t, r, http.MethodPost, "/api/catalog/seed", nil)
	body := requireEnvelope(t, w, http.StatusOK, true)
	assert.EqualValues(t, 2, body["created"])
	assert.EqualValues(t, 0, body["skipped"])

	var services int64
	require.NoError(t, db.Model(&models.Service{}).Count(&services).Error)
	assert.EqualValues(t, 2, services)

	// Re-running skips categories that already exist
	w = performJSON(t, r, http.MethodPost, "/api/catalog/seed", nil)
	body = requireEnvelope(t, w, http.StatusOK, true)
	assert.EqualValues(t, 0, body["created"])
	assert.EqualValues(t, 2, body["skipped"])

	require.NoError(t, db.Model(&models.Service{}).Count(&services).Error)
	assert.EqualValues(t, 2, services)
}
