package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hostelhub/server/internal/helpers"
	"github.com/hostelhub/server/internal/models"
	"github.com/hostelhub/server/internal/services"
)

func Signup(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := c.ShouldBindJSON(&user); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}

		// Role is never client-controlled; admins are promoted out of band.
		user.Role = models.RoleStudent

		created, err := u.CreateUser(c.Request.Context(), &user)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, helpers.SuccessResponse(created, "account created"))
	}
}

func Login(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}

		token, user, err := u.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, helpers.SuccessResponse(gin.H{
			"access_token": token,
			"user":         user,
		}, "login successful"))
	}
}

func Profile() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := principal(c)
		if !ok {
			return
		}

		c.JSON(http.StatusOK, helpers.SuccessResponse(gin.H{
			"user_id":  claims.UserID,
			"email":    claims.Email,
			"role":     claims.Role,
			"is_admin": claims.IsAdmin(),
		}, ""))
	}
}
