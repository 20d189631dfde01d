package controllers

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	ddbstore "swn-microservices/pkg/dynamodb"
	apperrors "swn-microservices/services/common/errors"
	"swn-microservices/services/common/response"

	"swn-microservices/services/basket-service/models"
	"swn-microservices/services/basket-service/repository"
	"swn-microservices/services/basket-service/services"
)

type BasketController struct {
	repo     repository.BasketRepository
	checkout *services.CheckoutService
}

func NewBasketController(repo repository.BasketRepository, checkout *services.CheckoutService) *BasketController {
	return &BasketController{repo: repo, checkout: checkout}
}

func operationMessage(c *gin.Context) string {
	return fmt.Sprintf("Successfully finished operation: %q", c.Request.Method)
}

// GetBasket returns one user's basket.
func (bc *BasketController) GetBasket(c *gin.Context) {
	username := c.Param("username")

	basket, err := bc.repo.Get(c.Request.Context(), username)
	if err != nil {
		if errors.Is(err, ddbstore.ErrNotFound) {
			response.Fail(c, apperrors.NotFound("basket not found for user "+username, err))
			return
		}
		zap.L().Error("get basket failed", zap.String("username", username), zap.Error(err))
		response.Fail(c, apperrors.Dependency("failed to get basket", err))
		return
	}

	response.OK(c, operationMessage(c), basket)
}

// GetAllBaskets scans the whole basket table. Demo-scale only.
func (bc *BasketController) GetAllBaskets(c *gin.Context) {
	baskets, err := bc.repo.GetAll(c.Request.Context())
	if err != nil {
		zap.L().Error("get all baskets failed", zap.Error(err))
		response.Fail(c, apperrors.Dependency("failed to list baskets", err))
		return
	}

	response.OK(c, operationMessage(c), baskets)
}

// CreateBasket upserts a basket; a user's basket is created implicitly on
// the first write.
func (bc *BasketController) CreateBasket(c *gin.Context) {
	var basket models.Basket
	if err := c.ShouldBindJSON(&basket); err != nil {
		response.Fail(c, apperrors.Validation("invalid basket payload", err))
		return
	}
	if basket.Username == "" {
		response.Fail(c, apperrors.Validation("username is required", nil))
		return
	}

	if err := bc.repo.Save(c.Request.Context(), &basket); err != nil {
		zap.L().Error("save basket failed", zap.String("username", basket.Username), zap.Error(err))
		response.Fail(c, apperrors.Dependency("failed to save basket", err))
		return
	}

	response.OK(c, operationMessage(c), basket)
}

// DeleteBasket removes a user's basket.
func (bc *BasketController) DeleteBasket(c *gin.Context) {
	username := c.Param("username")

	if err := bc.repo.Delete(c.Request.Context(), username); err != nil {
		zap.L().Error("delete basket failed", zap.String("username", username), zap.Error(err))
		response.Fail(c, apperrors.Dependency("failed to delete basket", err))
		return
	}

	response.OK(c, operationMessage(c), nil)
}

// CheckoutBasket converts the caller's basket into a checkout event.
func (bc *BasketController) CheckoutBasket(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperrors.Validation("invalid checkout payload", err))
		return
	}

	payload, appErr := bc.checkout.Checkout(c.Request.Context(), req)
	if appErr != nil {
		response.Fail(c, appErr)
		return
	}

	response.OK(c, operationMessage(c), gin.H{
		"checkoutId": payload.CheckoutID,
		"totalPrice": payload.TotalPrice,
	})
}
