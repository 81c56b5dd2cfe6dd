package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hostelhub/server/internal/helpers"
	"github.com/hostelhub/server/internal/services"
)

func SubmitBooking(b *services.BookingService, h *services.HostelService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := principal(c)
		if !ok {
			return
		}

		var req services.SubmitBookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}

		booking, err := b.Submit(c.Request.Context(), claims, &req)
		if err != nil {
			respondError(c, err)
			return
		}

		// Availability just changed; drop the cached hostel so browse
		// pages stop advertising the consumed unit.
		h.InvalidateCache(booking.HostelCode)

		c.JSON(http.StatusCreated, helpers.SuccessResponse(booking, "booking submitted"))
	}
}

func GetBooking(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := principal(c)
		if !ok {
			return
		}

		booking, err := b.GetByID(c.Request.Context(), claims, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, helpers.SuccessResponse(booking, ""))
	}
}

func ListMyBookings(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := principal(c)
		if !ok {
			return
		}
		offset, limit, ok := pagination(c)
		if !ok {
			return
		}

		bookings, total, err := b.ListForUser(c.Request.Context(), claims.UserID, offset, limit)
		if err != nil {
			respondError(c, err)
			return
		}

		page := (offset / limit) + 1
		c.JSON(http.StatusOK, helpers.PaginatedResponse(bookings, page, limit, total))
	}
}

func ListAllBookings(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		offset, limit, ok := pagination(c)
		if !ok {
			return
		}

		bookings, total, err := b.ListAll(c.Request.Context(), offset, limit)
		if err != nil {
			respondError(c, err)
			return
		}

		page := (offset / limit) + 1
		c.JSON(http.StatusOK, helpers.PaginatedResponse(bookings, page, limit, total))
	}
}

func ConfirmBooking(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		booking, err := b.Confirm(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, helpers.SuccessResponse(booking, "booking confirmed"))
	}
}

func CancelBooking(b *services.BookingService, h *services.HostelService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := principal(c)
		if !ok {
			return
		}

		booking, err := b.Cancel(c.Request.Context(), claims, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}

		h.InvalidateCache(booking.HostelCode)

		c.JSON(http.StatusOK, helpers.SuccessResponse(booking, "booking cancelled"))
	}
}

func BookingReceipt(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := principal(c)
		if !ok {
			return
		}

		receipt, err := b.Receipt(c.Request.Context(), claims, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, helpers.SuccessResponse(receipt, ""))
	}
}
