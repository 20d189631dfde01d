package routes

import (
	"github.com/gin-gonic/gin"

	"swn-microservices/services/ordering-service/controllers"
)

func RegisterOrderRoutes(r *gin.Engine, controller *controllers.OrderController) {
	orderRoutes := r.Group("/order")
	{
		orderRoutes.GET("", controller.GetAllOrders)
		orderRoutes.GET("/:username", controller.GetOrdersForUser)
	}
}
