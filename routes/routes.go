package routes

import (
	"net/http"
	"os"
	"strings"

	"laundrypro-backend/config"
	"laundrypro-backend/controllers"
	"laundrypro-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	origins := allowedOrigins()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Pickup-Token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		utils.RespondWithError(c, http.StatusMethodNotAllowed, "Method not allowed")
	})

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	// Public rider pickup flow; the bearer token is the sole credential.
	pickup := r.Group("/public/pickup")
	{
		pickup.GET("/validate", controllers.ValidatePickupToken)
		pickup.GET("/catalog", controllers.GetPickupCatalog)
		pickup.POST("/order", controllers.CreatePickupOrder)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Customer routes
		customers := api.Group("/customers")
		{
			customers.POST("", controllers.CreateCustomer)
			customers.GET("", controllers.GetCustomers)
			customers.GET("/:id", controllers.GetCustomer)
			customers.PUT("/:id", controllers.UpdateCustomer)
			customers.GET("/:id/addresses", controllers.GetCustomerAddresses)
		}

		// Address routes
		addresses := api.Group("/addresses")
		{
			addresses.POST("", controllers.CreateAddress)
			addresses.PUT("/:id", controllers.UpdateAddress)
			addresses.DELETE("/:id", controllers.DeleteAddress)
			addresses.PUT("/:id/default", controllers.SetDefaultAddress)
		}

		// Rider routes
		riders := api.Group("/riders")
		{
			riders.POST("", controllers.CreateRider)
			riders.GET("", controllers.GetRiders)
			riders.GET("/:id", controllers.GetRider)
			riders.GET("/:id/orders", controllers.GetRiderOrders)
			riders.PUT("/:id", controllers.UpdateRider)
			riders.DELETE("/:id", controllers.DeleteRider)
		}

		// Order routes
		orders := api.Group("/orders")
		{
			orders.POST("", controllers.CreateOrder)
			orders.GET("", controllers.GetOrders)
			orders.GET("/:id", controllers.GetOrder)
			orders.PUT("/:id/status", controllers.UpdateOrderStatus)
			orders.PUT("/:id/rider", controllers.AssignOrderRider)
		}

		// Service request routes
		requests := api.Group("/service-requests")
		{
			requests.POST("", controllers.CreateServiceRequest)
			requests.GET("", controllers.GetServiceRequests)
			requests.GET("/:id", controllers.GetServiceRequest)
			requests.PATCH("/:id", controllers.UpdateServiceRequest)
			requests.PUT("/:id/rider", controllers.AssignRequestRider)
		}

		// Catalog routes
		categories := api.Group("/categories")
		{
			categories.POST("", controllers.CreateCategory)
			categories.GET("", controllers.GetCategories)
			categories.PUT("/:id", controllers.UpdateCategory)
			categories.DELETE("/:id", controllers.DeleteCategory)
		}

		subcategories := api.Group("/subcategories")
		{
			subcategories.POST("", controllers.CreateSubcategory)
			subcategories.GET("", controllers.GetSubcategories)
			subcategories.PUT("/:id", controllers.UpdateSubcategory)
			subcategories.DELETE("/:id", controllers.DeleteSubcategory)
		}

		catalogServices := api.Group("/services")
		{
			catalogServices.POST("", controllers.CreateCatalogService)
			catalogServices.GET("", controllers.GetCatalogServices)
			catalogServices.PUT("/:id", controllers.UpdateCatalogService)
			catalogServices.DELETE("/:id", controllers.DeleteCatalogService)
		}

		api.GET("/catalog", controllers.GetCatalogGrouped)
		api.POST("/catalog/seed", controllers.SeedCatalog)
	}

	return r
}

func allowedOrigins() []string {
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		return strings.Split(env, ",")
	}
	return []string{"http://localhost:3000"}
}
