package container

import (
	"log/slog"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hostelhub/server/internal/config"
	"github.com/hostelhub/server/internal/models"
	"github.com/hostelhub/server/internal/notify"
	"github.com/hostelhub/server/internal/payment"
	"github.com/hostelhub/server/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Logger         *slog.Logger
	MongoDBClient  *mongo.Client
	Notifier       notify.Notifier
	UserService    *services.UserService
	HostelService  *services.HostelService
	BookingService *services.BookingService
	PaymentService *services.PaymentService
}

// NewContainer creates a new dependency injection container
func NewContainer(
	logger *slog.Logger,
	cfg *config.Config,
	mongoDBClient *mongo.Client,
	notifier notify.Notifier,
) *Container {
	// Initialize repositories and collaborators
	repo := models.MongodbNewRepo(mongoDBClient)
	gateway := payment.NewHTTPGateway(cfg.PaymentBaseURL, cfg.PaymentKeyID, cfg.PaymentSecret, logger)

	userService := services.NewUserService(repo)
	hostelService := services.NewHostelService(repo, repo)
	bookingService := services.NewBookingService(repo, repo, gateway, notifier, logger)
	paymentService := services.NewPaymentService(gateway, repo)

	return &Container{
		Logger:         logger,
		MongoDBClient:  mongoDBClient,
		Notifier:       notifier,
		UserService:    userService,
		HostelService:  hostelService,
		BookingService: bookingService,
		PaymentService: paymentService,
	}
}
