package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hostelhub/server/internal/helpers"
	"github.com/hostelhub/server/internal/models"
	"github.com/hostelhub/server/internal/notify"
)

type supportMessage struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
}

// SupportMessage accepts a support request and hands it to the notification
// sink. The sender gets a 202 whether or not downstream delivery works.
func SupportMessage(n notify.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var msg supportMessage
		if err := c.ShouldBindJSON(&msg); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}
		if err := models.Validate.Struct(&msg); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("name, email and message are required"))
			return
		}

		n.Notify(notify.EventSupportMessage, msg)

		c.JSON(http.StatusAccepted, helpers.SuccessResponse(nil, "message received"))
	}
}

func NewsletterSubscribe(n notify.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email string `json:"email" validate:"required,email"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}
		if err := models.Validate.Struct(&req); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("a valid email is required"))
			return
		}

		n.Notify(notify.EventNewsletterSubscribe, req)

		c.JSON(http.StatusAccepted, helpers.SuccessResponse(nil, "subscribed"))
	}
}
