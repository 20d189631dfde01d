package controllers

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	ddbstore "swn-microservices/pkg/dynamodb"
	apperrors "swn-microservices/services/common/errors"
	"swn-microservices/services/common/response"

	"swn-microservices/services/ordering-service/repository"
)

// OrderController serves the synchronous read path. It is independent of
// ingestion: reads go straight to the record store.
type OrderController struct {
	repo repository.OrderRepository
}

func NewOrderController(repo repository.OrderRepository) *OrderController {
	return &OrderController{repo: repo}
}

func operationMessage(c *gin.Context) string {
	return fmt.Sprintf("Successfully finished operation: %q", c.Request.Method)
}

// GetAllOrders scans the whole order table. Demo-scale only.
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := oc.repo.FindAll(c.Request.Context())
	if err != nil {
		zap.L().Error("get all orders failed", zap.Error(err))
		response.Fail(c, apperrors.Dependency("failed to list orders", err))
		return
	}

	response.OK(c, operationMessage(c), orders)
}

// GetOrdersForUser returns a user's orders in ascending orderDate order.
// With ?orderDate= it narrows to the point query on the composite key.
func (oc *OrderController) GetOrdersForUser(c *gin.Context) {
	username := c.Param("username")
	orderDate := c.Query("orderDate")

	if orderDate != "" {
		order, err := oc.repo.FindByUserAndDate(c.Request.Context(), username, orderDate)
		if err != nil {
			if errors.Is(err, ddbstore.ErrNotFound) {
				response.Fail(c, apperrors.NotFound("order not found", err))
				return
			}
			zap.L().Error("get order failed",
				zap.String("username", username),
				zap.String("order_date", orderDate),
				zap.Error(err))
			response.Fail(c, apperrors.Dependency("failed to get order", err))
			return
		}
		response.OK(c, operationMessage(c), order)
		return
	}

	orders, err := oc.repo.FindByUser(c.Request.Context(), username)
	if err != nil {
		zap.L().Error("get user orders failed", zap.String("username", username), zap.Error(err))
		response.Fail(c, apperrors.Dependency("failed to list orders", err))
		return
	}

	response.OK(c, operationMessage(c), orders)
}
