package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hostelhub/server/internal/helpers"
	"github.com/hostelhub/server/internal/models"
	"github.com/hostelhub/server/internal/services"
)

func CreateHostel(h *services.HostelService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := principal(c)
		if !ok {
			return
		}

		var hostel models.Hostel
		if err := c.ShouldBindJSON(&hostel); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}

		created, err := h.Create(c.Request.Context(), claims.UserID, &hostel)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, helpers.SuccessResponse(created, "hostel created successfully"))
	}
}

func ListHostels(h *services.HostelService) gin.HandlerFunc {
	return func(c *gin.Context) {
		offset, limit, ok := pagination(c)
		if !ok {
			return
		}

		hostels, total, err := h.List(c.Request.Context(), offset, limit)
		if err != nil {
			respondError(c, err)
			return
		}

		page := (offset / limit) + 1
		c.JSON(http.StatusOK, helpers.PaginatedResponse(hostels, page, limit, total))
	}
}

func GetHostelByCode(h *services.HostelService) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := strings.TrimSpace(c.Param("code"))
		if code == "" {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("hostel code is required"))
			return
		}

		hostel, err := h.GetByCode(c.Request.Context(), code)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, helpers.SuccessResponse(hostel, ""))
	}
}

func UpdateHostel(h *services.HostelService) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := strings.TrimSpace(c.Param("code"))
		if code == "" {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("hostel code is required"))
			return
		}

		var fields map[string]interface{}
		if err := c.ShouldBindJSON(&fields); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}

		updated, err := h.Update(c.Request.Context(), code, fields)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, helpers.SuccessResponse(updated, "hostel updated successfully"))
	}
}

func DeleteHostel(h *services.HostelService) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := strings.TrimSpace(c.Param("code"))
		if code == "" {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("hostel code is required"))
			return
		}

		if err := h.Delete(c.Request.Context(), code); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, helpers.SuccessResponse(nil, "hostel deleted successfully"))
	}
}
