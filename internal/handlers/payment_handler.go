package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hostelhub/server/internal/helpers"
	"github.com/hostelhub/server/internal/services"
)

func CreatePaymentOrder(p *services.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := principal(c); !ok {
			return
		}

		var req services.CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}

		order, err := p.CreateOrder(c.Request.Context(), &req)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, helpers.SuccessResponse(order, "order created"))
	}
}
