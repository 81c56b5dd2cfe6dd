package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hostelhub/server/internal/apperr"
	"github.com/hostelhub/server/internal/helpers"
	"github.com/hostelhub/server/internal/models"
	"github.com/hostelhub/server/internal/notify"
	"github.com/hostelhub/server/internal/payment"
)

// CodePaymentCapturedBookingFailed marks the one state an operator has to
// resolve by hand: the payment verified but the booking could not be
// persisted, so the money is captured with nothing to show for it.
const CodePaymentCapturedBookingFailed = "payment_captured_booking_failed"

// SubmitBookingRequest is the client's booking intent, submitted after the
// payment has gone through on their side.
type SubmitBookingRequest struct {
	HostelCode  string    `json:"hostel_code" validate:"required"`
	RoomType    string    `json:"room_type" validate:"required"`
	CheckIn     time.Time `json:"check_in" validate:"required"`
	CheckOut    time.Time `json:"check_out" validate:"required"`
	GuestName   string    `json:"guest_name" validate:"required"`
	GuestEmail  string    `json:"guest_email" validate:"required,email"`
	GuestPhone  string    `json:"guest_phone" validate:"required"`
	GuestGender string    `json:"guest_gender" validate:"required,oneof=male female other"`
	Amount      float64   `json:"amount" validate:"required,gt=0"`
	OrderID     string    `json:"order_id" validate:"required"`
	PaymentID   string    `json:"payment_id" validate:"required"`
	Signature   string    `json:"signature" validate:"required"`
}

type BookingService struct {
	hostelRepo  models.HostelRepo
	bookingRepo models.BookingRepo
	gateway     payment.Gateway
	notifier    notify.Notifier
	logger      *slog.Logger
}

func NewBookingService(
	hostelRepo models.HostelRepo,
	bookingRepo models.BookingRepo,
	gateway payment.Gateway,
	notifier notify.Notifier,
	logger *slog.Logger,
) *BookingService {
	return &BookingService{
		hostelRepo:  hostelRepo,
		bookingRepo: bookingRepo,
		gateway:     gateway,
		notifier:    notifier,
		logger:      logger,
	}
}

// Submit runs the booking workflow: verify the payment, reserve a unit,
// persist the booking. The reserve and the insert must land together; if the
// insert fails after a successful reserve, the unit is released again.
func (bs *BookingService) Submit(ctx context.Context, principal *helpers.Claims, req *SubmitBookingRequest) (*models.Booking, error) {
	if principal == nil {
		return nil, apperr.New(apperr.Unauthorized, "authentication required")
	}
	if err := models.Validate.Struct(req); err != nil {
		return nil, apperr.Wrap(apperr.Validation, "missing or invalid booking fields", err)
	}
	if !req.CheckOut.After(req.CheckIn) {
		return nil, apperr.New(apperr.Validation, "check_out must be after check_in")
	}

	// Payment first; the workflow never touches inventory for an
	// unverified payment.
	if !bs.gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		return nil, apperr.New(apperr.Validation, "payment signature verification failed")
	}

	hostel, err := bs.hostelRepo.GetHostelByCode(ctx, req.HostelCode)
	if err != nil {
		return nil, err
	}
	if hostel.RoomTypeByLabel(req.RoomType) == nil {
		return nil, apperr.Newf(apperr.NotFound, "room type %q not found on hostel %s", req.RoomType, req.HostelCode)
	}

	// Atomic compare-and-decrement; the loser of a race for the last unit
	// gets Conflict here.
	if err := bs.hostelRepo.ReserveRoom(ctx, req.HostelCode, req.RoomType); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		ID:             uuid.NewString(),
		UserID:         principal.UserID,
		HostelCode:     req.HostelCode,
		RoomType:       req.RoomType,
		CheckIn:        req.CheckIn,
		CheckOut:       req.CheckOut,
		GuestName:      req.GuestName,
		GuestEmail:     req.GuestEmail,
		GuestPhone:     req.GuestPhone,
		GuestGender:    req.GuestGender,
		Amount:         req.Amount,
		PaymentOrderID: req.OrderID,
		PaymentID:      req.PaymentID,
		Status:         models.BookingPending,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	created, err := bs.bookingRepo.InsertBooking(ctx, booking)
	if err != nil {
		// Roll the reserve back so the unit is not lost. If even that
		// fails the payment is captured with no booking and no
		// inventory to reconcile, which only an operator can fix.
		if relErr := bs.hostelRepo.ReleaseRoom(ctx, req.HostelCode, req.RoomType); relErr != nil {
			bs.logger.Error("payment captured but booking failed and restock failed",
				"order_id", req.OrderID,
				"payment_id", req.PaymentID,
				"hostel_code", req.HostelCode,
				"room_type", req.RoomType,
				"insert_error", err,
				"release_error", relErr,
			)
		} else {
			bs.logger.Error("payment captured but booking failed",
				"order_id", req.OrderID,
				"payment_id", req.PaymentID,
				"hostel_code", req.HostelCode,
			)
		}
		return nil, apperr.Wrap(apperr.Internal, "payment captured but booking could not be saved", err).
			WithCode(CodePaymentCapturedBookingFailed)
	}

	bs.notifier.Notify(notify.EventBookingCreated, created)

	return created, nil
}

// Confirm moves a pending booking to confirmed. Confirming an already
// confirmed booking is a no-op success; a cancelled booking stays dead.
func (bs *BookingService) Confirm(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := bs.bookingRepo.GetBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch booking.Status {
	case models.BookingConfirmed:
		return booking, nil
	case models.BookingCancelled:
		return nil, apperr.New(apperr.Conflict, "booking is cancelled and cannot be confirmed")
	}

	if !booking.Status.CanTransition(models.BookingConfirmed) {
		return nil, apperr.Newf(apperr.Conflict, "cannot confirm booking in status %s", booking.Status)
	}

	changed, err := bs.bookingRepo.TransitionStatus(ctx, id,
		[]models.BookingStatus{models.BookingPending}, models.BookingConfirmed)
	if err != nil {
		return nil, err
	}
	if !changed {
		// Raced with another transition; re-read and report the truth.
		return bs.Confirm(ctx, id)
	}

	booking.Status = models.BookingConfirmed
	return booking, nil
}

// Cancel releases the booking's room unit and marks it cancelled. The
// guarded transition is the idempotence gate: only the caller whose update
// actually flips the status performs the restock, so a second cancel can
// never return the same unit twice.
func (bs *BookingService) Cancel(ctx context.Context, principal *helpers.Claims, id string) (*models.Booking, error) {
	booking, err := bs.bookingRepo.GetBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !principal.IsAdmin() && !principal.IsOwner(booking.UserID) {
		return nil, apperr.New(apperr.Forbidden, "only the booking owner or an admin can cancel")
	}

	changed, err := bs.bookingRepo.TransitionStatus(ctx, id,
		[]models.BookingStatus{models.BookingPending, models.BookingConfirmed}, models.BookingCancelled)
	if err != nil {
		return nil, err
	}

	booking.Status = models.BookingCancelled
	if !changed {
		// Already cancelled; no second restock.
		return booking, nil
	}

	if err := bs.hostelRepo.ReleaseRoom(ctx, booking.HostelCode, booking.RoomType); err != nil {
		// The booking is cancelled either way; a lost unit is logged for
		// the operator rather than failing the cancellation.
		bs.logger.Error("failed to restock room after cancellation",
			"booking_id", id,
			"hostel_code", booking.HostelCode,
			"room_type", booking.RoomType,
			"error", err,
		)
	}

	bs.notifier.Notify(notify.EventBookingCancelled, booking)

	return booking, nil
}

// Receipt builds the read-only receipt projection for a confirmed booking.
func (bs *BookingService) Receipt(ctx context.Context, principal *helpers.Claims, id string) (*models.Receipt, error) {
	booking, err := bs.bookingRepo.GetBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !principal.IsAdmin() && !principal.IsOwner(booking.UserID) {
		return nil, apperr.New(apperr.Forbidden, "only the booking owner or an admin can view the receipt")
	}
	if booking.Status != models.BookingConfirmed {
		return nil, apperr.New(apperr.Conflict, "booking not confirmed yet")
	}

	return &models.Receipt{
		BookingID:  booking.ID,
		HostelCode: booking.HostelCode,
		RoomType:   booking.RoomType,
		GuestName:  booking.GuestName,
		CheckIn:    booking.CheckIn,
		CheckOut:   booking.CheckOut,
		Amount:     booking.Amount,
		PaymentID:  booking.PaymentID,
		IssuedAt:   time.Now(),
	}, nil
}

func (bs *BookingService) GetByID(ctx context.Context, principal *helpers.Claims, id string) (*models.Booking, error) {
	booking, err := bs.bookingRepo.GetBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !principal.IsAdmin() && !principal.IsOwner(booking.UserID) {
		return nil, apperr.New(apperr.Forbidden, "not your booking")
	}
	return booking, nil
}

func (bs *BookingService) ListForUser(ctx context.Context, userID string, offset, limit int) ([]*models.Booking, int, error) {
	if offset < 0 || limit <= 0 {
		return nil, 0, apperr.New(apperr.Validation, "invalid offset or limit")
	}
	return bs.bookingRepo.ListBookingsByUser(ctx, userID, offset, limit)
}

func (bs *BookingService) ListAll(ctx context.Context, offset, limit int) ([]*models.Booking, int, error) {
	if offset < 0 || limit <= 0 {
		return nil, 0, apperr.New(apperr.Validation, "invalid offset or limit")
	}
	return bs.bookingRepo.ListBookings(ctx, offset, limit)
}
