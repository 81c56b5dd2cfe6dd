package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/hostelhub/server/internal/container"
	"github.com/hostelhub/server/internal/handlers"
	"github.com/hostelhub/server/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	// Set Gin mode for production
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Add middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	// API version 1
	v1 := r.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "OK",
				"service": "hostelhub-api",
			})
		})

		// public routes
		v1.POST("/signup", handlers.Signup(container.UserService))
		v1.POST("/login", handlers.Login(container.UserService))

		v1.GET("/hostels", handlers.ListHostels(container.HostelService))
		v1.GET("/hostels/:code", handlers.GetHostelByCode(container.HostelService))

		v1.POST("/support", handlers.SupportMessage(container.Notifier))
		v1.POST("/newsletter/subscribe", handlers.NewsletterSubscribe(container.Notifier))
	}

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(container.Logger))

	protected.GET("/profile", handlers.Profile())

	protected.POST("/payments/order", handlers.CreatePaymentOrder(container.PaymentService))

	bookingRoutes := protected.Group("/bookings")
	{
		bookingRoutes.POST("/", handlers.SubmitBooking(container.BookingService, container.HostelService))
		bookingRoutes.GET("/mine", handlers.ListMyBookings(container.BookingService))
		bookingRoutes.GET("/:id", handlers.GetBooking(container.BookingService))
		bookingRoutes.GET("/:id/receipt", handlers.BookingReceipt(container.BookingService))
		bookingRoutes.POST("/:id/cancel", handlers.CancelBooking(container.BookingService, container.HostelService))
	}

	admin := protected.Group("/")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/bookings", handlers.ListAllBookings(container.BookingService))
		admin.POST("/bookings/:id/confirm", handlers.ConfirmBooking(container.BookingService))

		admin.POST("/hostels", handlers.CreateHostel(container.HostelService))
		admin.PATCH("/hostels/:code", handlers.UpdateHostel(container.HostelService))
		admin.DELETE("/hostels/:code", handlers.DeleteHostel(container.HostelService))
	}

	return r
}
