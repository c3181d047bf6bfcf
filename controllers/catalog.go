package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"laundrypro-backend/config"
	"laundrypro-backend/models"
	"laundrypro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateCategoryInput defines the expected JSON structure for creating a category
type CreateCategoryInput struct {
	Name      string `json:"name" binding:"required"`
	Status    string `json:"status" binding:"omitempty,oneof=active inactive"`
	SortOrder int    `json:"sort_order"`
}

// UpdateCategoryInput defines the expected JSON structure for updating a category
type UpdateCategoryInput struct {
	Name      *string `json:"name"`
	Status    *string `json:"status" binding:"omitempty,oneof=active inactive"`
	SortOrder *int    `json:"sort_order"`
}

// CreateSubcategoryInput defines the expected JSON structure for creating a subcategory
type CreateSubcategoryInput struct {
	CategoryID uuid.UUID `json:"category_id" binding:"required"`
	Name       string    `json:"name" binding:"required"`
	Status     string    `json:"status" binding:"omitempty,oneof=active inactive"`
	SortOrder  int       `json:"sort_order"`
}

// UpdateSubcategoryInput defines the expected JSON structure for updating a subcategory
type UpdateSubcategoryInput struct {
	Name      *string `json:"name"`
	Status    *string `json:"status" binding:"omitempty,oneof=active inactive"`
	SortOrder *int    `json:"sort_order"`
}

// CreateCatalogServiceInput defines the expected JSON structure for creating a service
type CreateCatalogServiceInput struct {
	SubcategoryID uuid.UUID `json:"subcategory_id" binding:"required"`
	Name          string    `json:"name" binding:"required"`
	Price         float64   `json:"price" binding:"required,min=0"`
	ServiceType   string    `json:"service_type"`
	Status        string    `json:"status" binding:"omitempty,oneof=active inactive"`
	SortOrder     int       `json:"sort_order"`
}

// UpdateCatalogServiceInput defines the expected JSON structure for updating a service
type UpdateCatalogServiceInput struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price" binding:"omitempty,min=0"`
	ServiceType *string  `json:"service_type"`
	Status      *string  `json:"status" binding:"omitempty,oneof=active inactive"`
	SortOrder   *int     `json:"sort_order"`
}

// CreateCategory creates a new catalog category
func CreateCategory(c *gin.Context) {
	var input CreateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var existing models.Category
	if err := config.DB.Where("name = ?", input.Name).First(&existing).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Category with this name already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	status := input.Status
	if status == "" {
		status = models.CatalogStatusActive
	}
	category := models.Category{
		Name:      input.Name,
		Status:    status,
		SortOrder: input.SortOrder,
	}

	if err := config.DB.Create(&category).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create category")
		return
	}

	utils.RespondOK(c, http.StatusCreated, gin.H{"category": category})
}

// GetCategories lists categories ordered by sort order
func GetCategories(c *gin.Context) {
	var categories []models.Category
	if err := config.DB.Order("sort_order").Find(&categories).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve categories")
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"categories": categories})
}

// GetCatalogGrouped returns the full catalog tree
func GetCatalogGrouped(c *gin.Context) {
	var categories []models.Category
	if err := config.DB.
		Preload("Subcategories", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order") }).
		Preload("Subcategories.Services", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order") }).
		Order("sort_order").
		Find(&categories).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve catalog")
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"catalog": categories})
}

// UpdateCategory updates an existing category
func UpdateCategory(c *gin.Context) {
	categoryUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid category ID format")
		return
	}

	var input UpdateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var category models.Category
	if err := config.DB.First(&category, "id = ?", categoryUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Category not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil && *input.Name != category.Name {
		var existing models.Category
		if err := config.DB.Where("name = ? AND id <> ?", *input.Name, category.ID).
			First(&existing).Error; err == nil {
			utils.RespondWithError(c, http.StatusConflict, "Category with this name already exists")
			return
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			return
		}
		category.Name = *input.Name
	}
	if input.Status != nil {
		category.Status = *input.Status
	}
	if input.SortOrder != nil {
		category.SortOrder = *input.SortOrder
	}

	if err := config.DB.Save(&category).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update category")
		return
	}

	utils.RespondOK(c, http.StatusOK, gin.H{"category": category})
}

// DeleteCategory removes a category and its subtree
func DeleteCategory(c *gin.Context) {
	categoryUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid category ID format")
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		var subcategoryIDs []uuid.UUID
		if err := tx.Model(&models.Subcategory{}).
			Where("category_id = ?", categoryUUID).
			Pluck("id", &subcategoryIDs).Error; err != nil {
			return err
		}
		if len(subcategoryIDs) > 0 {
			if err := tx.Where("subcategory_id IN ?", subcategoryIDs).
				Delete(&models.Service{}).Error; err != nil {
				return err
			}
			if err := tx.Where("category_id = ?", categoryUUID).
				Delete(&models.Subcategory{}).Error; err != nil {
				return err
			}
		}
		result := tx.Where("id = ?", categoryUUID).Delete(&models.Category{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Category not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete category")
		}
		return
	}

	utils.RespondOK(c, http.StatusOK, gin.H{"message": "Category deleted successfully"})
}

// CreateSubcategory creates a new subcategory under a category
func CreateSubcategory(c *gin.Context) {
	var input CreateSubcategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var category models.Category
	if err := config.DB.First(&category, "id = ?", input.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Category not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	status := input.Status
	if status == "" {
		status = models.CatalogStatusActive
	}
	subcategory := models.Subcategory{
		CategoryID: input.CategoryID,
		Name:       input.Name,
		Status:     status,
		SortOrder:  input.SortOrder,
	}

	if err := config.DB.Create(&subcategory).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create subcategory")
		return
	}

	utils.RespondOK(c, http.StatusCreated, gin.H{"subcategory": subcategory})
}

// GetSubcategories lists subcategories, optionally scoped to one category
func GetSubcategories(c *gin.Context) {
	query := config.DB.Order("sort_order")

	if categoryID := c.Query("category_id"); categoryID != "" {
		categoryUUID, err := uuid.Parse(categoryID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid category ID format")
			return
		}
		query = query.Where("category_id = ?", categoryUUID)
	}

	var subcategories []models.Subcategory
	if err := query.Find(&subcategories).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve subcategories")
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"subcategories": subcategories})
}

// UpdateSubcategory updates an existing subcategory
func UpdateSubcategory(c *gin.Context) {
	subcategoryUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid subcategory ID format")
		return
	}

	var input UpdateSubcategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var subcategory models.Subcategory
	if err := config.DB.First(&subcategory, "id = ?", subcategoryUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Subcategory not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		subcategory.Name = *input.Name
	}
	if input.Status != nil {
		subcategory.Status = *input.Status
	}
	if input.SortOrder != nil {
		subcategory.SortOrder = *input.SortOrder
	}

	if err := config.DB.Save(&subcategory).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update subcategory")
		return
	}

	utils.RespondOK(c, http.StatusOK, gin.H{"subcategory": subcategory})
}

// DeleteSubcategory removes a subcategory and its services
func DeleteSubcategory(c *gin.Context) {
	subcategoryUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid subcategory ID format")
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("subcategory_id = ?", subcategoryUUID).
			Delete(&models.Service{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", subcategoryUUID).Delete(&models.Subcategory{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Subcategory not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete subcategory")
		}
		return
	}

	utils.RespondOK(c, http.StatusOK, gin.H{"message": "Subcategory deleted successfully"})
}

// CreateCatalogService creates a new priced service
func CreateCatalogService(c *gin.Context) {
	var input CreateCatalogServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var subcategory models.Subcategory
	if err := config.DB.First(&subcategory, "id = ?", input.SubcategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Subcategory not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	status := input.Status
	if status == "" {
		status = models.CatalogStatusActive
	}
	service := models.Service{
		SubcategoryID: input.SubcategoryID,
		Name:          input.Name,
		Price:         input.Price,
		ServiceType:   input.ServiceType,
		Status:        status,
		SortOrder:     input.SortOrder,
	}

	if err := config.DB.Create(&service).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create service")
		return
	}

	utils.RespondOK(c, http.StatusCreated, gin.H{"service": service})
}

// GetCatalogServices lists services, optionally filtered by subcategory
func GetCatalogServices(c *gin.Context) {
	query := config.DB.Model(&models.Service{})
	if subcategoryID := c.Query("subcategory_id"); subcategoryID != "" {
		subcategoryUUID, err := uuid.Parse(subcategoryID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid subcategory ID format")
			return
		}
		query = query.Where("subcategory_id = ?", subcategoryUUID)
	}

	var catalogServices []models.Service
	if err := query.Order("sort_order").Find(&catalogServices).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve services")
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"services": catalogServices})
}

// UpdateCatalogService updates an existing service
func UpdateCatalogService(c *gin.Context) {
	serviceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	var input UpdateCatalogServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var service models.Service
	if err := config.DB.First(&service, "id = ?", serviceUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		service.Name = *input.Name
	}
	if input.Price != nil {
		service.Price = *input.Price
	}
	if input.ServiceType != nil {
		service.ServiceType = *input.ServiceType
	}
	if input.Status != nil {
		service.Status = *input.Status
	}
	if input.SortOrder != nil {
		service.SortOrder = *input.SortOrder
	}

	if err := config.DB.Save(&service).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update service")
		return
	}

	utils.RespondOK(c, http.StatusOK, gin.H{"service": service})
}

// DeleteCatalogService removes a service from the catalog. Historical orders
// keep their by-value snapshot.
func DeleteCatalogService(c *gin.Context) {
	serviceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	result := config.DB.Where("id = ?", serviceUUID).Delete(&models.Service{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete service")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		return
	}

	utils.RespondOK(c, http.StatusOK, gin.H{"message": "Service deleted successfully"})
}

// seedCatalogFile mirrors the services.json layout.
type seedCatalogFile struct {
	Categories []struct {
		Name          string `json:"name"`
		SortOrder     int    `json:"sort_order"`
		Subcategories []struct {
			Name      string `json:"name"`
			SortOrder int    `json:"sort_order"`
			Services  []struct {
				Name        string  `json:"name"`
				Price       float64 `json:"price"`
				ServiceType string  `json:"service_type"`
				SortOrder   int     `json:"sort_order"`
			} `json:"services"`
		} `json:"subcategories"`
	} `json:"categories"`
}

// SeedCatalog bulk-imports the catalog tree from the JSON file on disk in a
// single transaction. Existing categories with the same name are skipped.
func SeedCatalog(c *gin.Context) {
	path := os.Getenv("CATALOG_FILE")
	if path == "" {
		path = "services.json"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to read catalog file: "+err.Error())
		return
	}

	var seed seedCatalogFile
	if err := json.Unmarshal(data, &seed); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid catalog file: "+err.Error())
		return
	}

	var created, skipped int
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		for _, cat := range seed.Categories {
			var existing models.Category
			err := tx.Where("name = ?", cat.Name).First(&existing).Error
			if err == nil {
				skipped++
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			category := models.Category{
				Name:      cat.Name,
				Status:    models.CatalogStatusActive,
				SortOrder: cat.SortOrder,
			}
			if err := tx.Create(&category).Error; err != nil {
				return err
			}

			for _, sub := range cat.Subcategories {
				subcategory := models.Subcategory{
					CategoryID: category.ID,
					Name:       sub.Name,
					Status:     models.CatalogStatusActive,
					SortOrder:  sub.SortOrder,
				}
				if err := tx.Create(&subcategory).Error; err != nil {
					return err
				}

				for _, svc := range sub.Services {
					service := models.Service{
						SubcategoryID: subcategory.ID,
						Name:          svc.Name,
						Price:         svc.Price,
						ServiceType:   svc.ServiceType,
						Status:        models.CatalogStatusActive,
						SortOrder:     svc.SortOrder,
					}
					if err := tx.Create(&service).Error; err != nil {
						return err
					}
				}
			}
			created++
		}
		return nil
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to seed catalog: "+err.Error())
		return
	}

	utils.RespondOK(c, http.StatusOK, gin.H{
		"message": "Catalog seeded",
		"created": created,
		"skipped": skipped,
	})
}
