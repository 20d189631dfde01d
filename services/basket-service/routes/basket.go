package routes

import (
	"github.com/gin-gonic/gin"

	"swn-microservices/services/basket-service/controllers"
)

func RegisterBasketRoutes(r *gin.Engine, controller *controllers.BasketController) {
	basketRoutes := r.Group("/basket")
	{
		basketRoutes.GET("", controller.GetAllBaskets)
		basketRoutes.GET("/:username", controller.GetBasket)
		basketRoutes.POST("", controller.CreateBasket)
		basketRoutes.DELETE("/:username", controller.DeleteBasket)
		basketRoutes.POST("/checkout", controller.CheckoutBasket)
	}
}
