package routes

import (
	"github.com/gin-gonic/gin"

	"swn-microservices/services/product-service/controllers"
)

func RegisterProductRoutes(r *gin.Engine, controller *controllers.ProductController) {
	productRoutes := r.Group("/product")
	{
		productRoutes.GET("", controller.GetAllProducts)
		productRoutes.GET("/:id", controller.GetProduct)
		productRoutes.POST("", controller.CreateProduct)
		productRoutes.PUT("/:id", controller.UpdateProduct)
		productRoutes.DELETE("/:id", controller.DeleteProduct)
	}
}
