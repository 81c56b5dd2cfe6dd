package services

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/hostelhub/server/internal/apperr"
	"github.com/hostelhub/server/internal/helpers"
	"github.com/hostelhub/server/internal/models"
	"github.com/hostelhub/server/internal/notify"
	"github.com/hostelhub/server/internal/payment"
)

const testSecret = "test-payment-secret"

func testHostel(available int) *models.Hostel {
	return &models.Hostel{
		Code:     "HST-ABC123",
		Name:     "Sunrise Hostel",
		Location: "Campus North",
		Category: models.CategoryBoys,
		RoomTypes: []models.RoomType{
			{Label: "single", Capacity: 1, Price: 500, TotalUnits: 5, Available: available},
		},
	}
}

func testBookingService(hostels *memHostelRepo, bookings *memBookingRepo, notifier notify.Notifier) *BookingService {
	if notifier == nil {
		notifier = notify.NoopNotifier{}
	}
	return NewBookingService(hostels, bookings, &fakeGateway{secret: testSecret}, notifier, slog.Default())
}

func signedRequest(userSuffix string) *SubmitBookingRequest {
	orderID := "order_" + userSuffix
	paymentID := "pay_" + userSuffix
	return &SubmitBookingRequest{
		HostelCode:  "HST-ABC123",
		RoomType:    "single",
		CheckIn:     time.Now().AddDate(0, 1, 0),
		CheckOut:    time.Now().AddDate(0, 4, 0),
		GuestName:   "Asha Verma",
		GuestEmail:  "asha@example.com",
		GuestPhone:  "+919800000000",
		GuestGender: "female",
		Amount:      500,
		OrderID:     orderID,
		PaymentID:   paymentID,
		Signature:   payment.Sign(testSecret, orderID, paymentID),
	}
}

func studentClaims(id string) *helpers.Claims {
	return &helpers.Claims{UserID: id, Role: models.RoleStudent}
}

func adminClaims() *helpers.Claims {
	return &helpers.Claims{UserID: "admin-1", Role: models.RoleAdmin}
}

func TestSubmitBooking(t *testing.T) {
	hostels := newMemHostelRepo(testHostel(1))
	bookings := newMemBookingRepo()
	notifier := &recordNotifier{}
	svc := testBookingService(hostels, bookings, notifier)

	booking, err := svc.Submit(context.Background(), studentClaims("user-a"), signedRequest("a"))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if booking.Status != models.BookingPending {
		t.Errorf("new booking status = %s, want pending", booking.Status)
	}
	if got := hostels.available("HST-ABC123", "single"); got != 0 {
		t.Errorf("availability after submit = %d, want 0", got)
	}
	if notifier.count(notify.EventBookingCreated) != 1 {
		t.Error("expected a booking.created event")
	}

	// Second user hits the empty room type.
	_, err = svc.Submit(context.Background(), studentClaims("user-b"), signedRequest("b"))
	if !apperr.IsKind(err, apperr.Conflict) {
		t.Fatalf("expected Conflict for exhausted room type, got %v", err)
	}
}

func TestSubmitBookingUnauthenticated(t *testing.T) {
	svc := testBookingService(newMemHostelRepo(testHostel(1)), newMemBookingRepo(), nil)

	_, err := svc.Submit(context.Background(), nil, signedRequest("a"))
	if !apperr.IsKind(err, apperr.Unauthorized) {
		t.Fatalf("expected Unauthorized, got %v", err)
	}
}

func TestSubmitBookingValidation(t *testing.T) {
	svc := testBookingService(newMemHostelRepo(testHostel(1)), newMemBookingRepo(), nil)

	req := signedRequest("a")
	req.GuestEmail = ""
	if _, err := svc.Submit(context.Background(), studentClaims("u"), req); !apperr.IsKind(err, apperr.Validation) {
		t.Errorf("missing guest email: expected Validation, got %v", err)
	}

	req = signedRequest("a")
	req.CheckOut = req.CheckIn.AddDate(0, 0, -1)
	if _, err := svc.Submit(context.Background(), studentClaims("u"), req); !apperr.IsKind(err, apperr.Validation) {
		t.Errorf("inverted dates: expected Validation, got %v", err)
	}
}

func TestSubmitBookingUnknownHostelAndRoomType(t *testing.T) {
	svc := testBookingService(newMemHostelRepo(testHostel(1)), newMemBookingRepo(), nil)

	req := signedRequest("a")
	req.HostelCode = "HST-NOPE99"
	if _, err := svc.Submit(context.Background(), studentClaims("u"), req); !apperr.IsKind(err, apperr.NotFound) {
		t.Errorf("unknown hostel: expected NotFound, got %v", err)
	}

	req = signedRequest("a")
	req.RoomType = "penthouse"
	if _, err := svc.Submit(context.Background(), studentClaims("u"), req); !apperr.IsKind(err, apperr.NotFound) {
		t.Errorf("unknown room type: expected NotFound, got %v", err)
	}
}

func TestSubmitBookingTamperedSignature(t *testing.T) {
	hostels := newMemHostelRepo(testHostel(1))
	bookings := newMemBookingRepo()
	svc := testBookingService(hostels, bookings, nil)

	req := signedRequest("a")
	req.Signature = payment.Sign("wrong-secret", req.OrderID, req.PaymentID)

	_, err := svc.Submit(context.Background(), studentClaims("user-a"), req)
	if !apperr.IsKind(err, apperr.Validation) {
		t.Fatalf("expected Validation for tampered signature, got %v", err)
	}
	// The submission must never have happened.
	if got := hostels.available("HST-ABC123", "single"); got != 1 {
		t.Errorf("availability touched despite failed verification: %d", got)
	}
	if _, total, _ := bookings.ListBookings(context.Background(), 0, 10); total != 0 {
		t.Errorf("booking persisted despite failed verification: %d", total)
	}
}

func TestSubmitBookingRollsBackReserveOnInsertFailure(t *testing.T) {
	hostels := newMemHostelRepo(testHostel(1))
	bookings := newMemBookingRepo()
	bookings.failNextInsert = true
	svc := testBookingService(hostels, bookings, nil)

	_, err := svc.Submit(context.Background(), studentClaims("user-a"), signedRequest("a"))
	if !apperr.IsKind(err, apperr.Internal) {
		t.Fatalf("expected Internal, got %v", err)
	}
	if apperr.CodeOf(err) != CodePaymentCapturedBookingFailed {
		t.Errorf("error code = %q, want %q", apperr.CodeOf(err), CodePaymentCapturedBookingFailed)
	}
	// The reserved unit must have been returned.
	if got := hostels.available("HST-ABC123", "single"); got != 1 {
		t.Errorf("availability after rollback = %d, want 1", got)
	}
}

// For a room type with N units, exactly N concurrent submissions succeed
// and every extra one fails with Conflict, regardless of arrival order.
func TestSubmitBookingRaceSafety(t *testing.T) {
	const units = 5
	const contenders = 20

	hostels := newMemHostelRepo(testHostel(units))
	bookings := newMemBookingRepo()
	svc := testBookingService(hostels, bookings, nil)

	var wg sync.WaitGroup
	results := make(chan error, contenders)

	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			req := signedRequest(string(rune('a' + n)))
			_, err := svc.Submit(context.Background(), studentClaims("user"), req)
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	succeeded, conflicted := 0, 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case apperr.IsKind(err, apperr.Conflict):
			conflicted++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if succeeded != units {
		t.Errorf("succeeded = %d, want %d", succeeded, units)
	}
	if conflicted != contenders-units {
		t.Errorf("conflicted = %d, want %d", conflicted, contenders-units)
	}
	if got := hostels.available("HST-ABC123", "single"); got != 0 {
		t.Errorf("availability = %d, want 0", got)
	}
}

func TestConfirmBooking(t *testing.T) {
	hostels := newMemHostelRepo(testHostel(1))
	bookings := newMemBookingRepo()
	svc := testBookingService(hostels, bookings, nil)

	booking, err := svc.Submit(context.Background(), studentClaims("user-a"), signedRequest("a"))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	confirmed, err := svc.Confirm(context.Background(), booking.ID)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if confirmed.Status != models.BookingConfirmed {
		t.Errorf("status = %s, want confirmed", confirmed.Status)
	}
	// No inventory change on confirm.
	if got := hostels.available("HST-ABC123", "single"); got != 0 {
		t.Errorf("availability after confirm = %d, want 0", got)
	}

	// Confirming again is a no-op success.
	again, err := svc.Confirm(context.Background(), booking.ID)
	if err != nil {
		t.Fatalf("re-confirm failed: %v", err)
	}
	if again.Status != models.BookingConfirmed {
		t.Errorf("re-confirm status = %s", again.Status)
	}

	if _, err := svc.Confirm(context.Background(), "missing-id"); !apperr.IsKind(err, apperr.NotFound) {
		t.Errorf("confirm missing: expected NotFound, got %v", err)
	}
}

func TestConfirmCancelledBookingRejected(t *testing.T) {
	hostels := newMemHostelRepo(testHostel(1))
	bookings := newMemBookingRepo()
	svc := testBookingService(hostels, bookings, nil)

	booking, _ := svc.Submit(context.Background(), studentClaims("user-a"), signedRequest("a"))
	if _, err := svc.Cancel(context.Background(), studentClaims("user-a"), booking.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	_, err := svc.Confirm(context.Background(), booking.ID)
	if !apperr.IsKind(err, apperr.Conflict) {
		t.Fatalf("confirm after cancel: expected Conflict, got %v", err)
	}

	got, _ := bookings.GetBookingByID(context.Background(), booking.ID)
	if got.Status != models.BookingCancelled {
		t.Errorf("status flipped back to %s", got.Status)
	}
}

func TestCancelBookingRestocksOnce(t *testing.T) {
	hostels := newMemHostelRepo(testHostel(1))
	bookings := newMemBookingRepo()
	svc := testBookingService(hostels, bookings, nil)

	booking, _ := svc.Submit(context.Background(), studentClaims("user-a"), signedRequest("a"))
	if got := hostels.available("HST-ABC123", "single"); got != 0 {
		t.Fatalf("availability after submit = %d", got)
	}

	if _, err := svc.Cancel(context.Background(), studentClaims("user-a"), booking.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if got := hostels.available("HST-ABC123", "single"); got != 1 {
		t.Errorf("availability after cancel = %d, want 1", got)
	}

	// A second cancel is a no-op, not a second restock.
	if _, err := svc.Cancel(context.Background(), studentClaims("user-a"), booking.ID); err != nil {
		t.Fatalf("second cancel failed: %v", err)
	}
	if got := hostels.available("HST-ABC123", "single"); got != 1 {
		t.Errorf("availability after double cancel = %d, want 1", got)
	}
}

func TestCancelBookingPermissions(t *testing.T) {
	hostels := newMemHostelRepo(testHostel(2))
	bookings := newMemBookingRepo()
	svc := testBookingService(hostels, bookings, nil)

	booking, _ := svc.Submit(context.Background(), studentClaims("user-a"), signedRequest("a"))

	// A stranger cannot cancel.
	if _, err := svc.Cancel(context.Background(), studentClaims("user-b"), booking.ID); !apperr.IsKind(err, apperr.Forbidden) {
		t.Errorf("stranger cancel: expected Forbidden, got %v", err)
	}

	// An admin can cancel a confirmed booking and the unit comes back.
	if _, err := svc.Confirm(context.Background(), booking.ID); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	cancelled, err := svc.Cancel(context.Background(), adminClaims(), booking.ID)
	if err != nil {
		t.Fatalf("admin cancel failed: %v", err)
	}
	if cancelled.Status != models.BookingCancelled {
		t.Errorf("status = %s, want cancelled", cancelled.Status)
	}
	if got := hostels.available("HST-ABC123", "single"); got != 2 {
		t.Errorf("availability after admin cancel = %d, want 2", got)
	}
}

func TestReceipt(t *testing.T) {
	hostels := newMemHostelRepo(testHostel(1))
	bookings := newMemBookingRepo()
	svc := testBookingService(hostels, bookings, nil)

	booking, _ := svc.Submit(context.Background(), studentClaims("user-a"), signedRequest("a"))

	// Pending booking has no receipt.
	if _, err := svc.Receipt(context.Background(), studentClaims("user-a"), booking.ID); !apperr.IsKind(err, apperr.Conflict) {
		t.Errorf("pending receipt: expected Conflict, got %v", err)
	}

	if _, err := svc.Confirm(context.Background(), booking.ID); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	receipt, err := svc.Receipt(context.Background(), studentClaims("user-a"), booking.ID)
	if err != nil {
		t.Fatalf("receipt failed: %v", err)
	}
	if receipt.Amount != booking.Amount {
		t.Errorf("receipt amount = %v, want %v", receipt.Amount, booking.Amount)
	}
	if receipt.BookingID != booking.ID || receipt.HostelCode != booking.HostelCode {
		t.Errorf("receipt fields do not match booking: %+v", receipt)
	}

	// Receipt is a projection; the booking is untouched.
	got, _ := bookings.GetBookingByID(context.Background(), booking.ID)
	if got.Status != models.BookingConfirmed {
		t.Errorf("receipt mutated booking status to %s", got.Status)
	}
}
