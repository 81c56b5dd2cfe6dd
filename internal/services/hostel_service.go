package services

import (
	"context"
	"time"

	"github.com/karlseguin/ccache/v3"

	"github.com/hostelhub/server/internal/apperr"
	"github.com/hostelhub/server/internal/helpers"
	"github.com/hostelhub/server/internal/models"
)

// hostelCacheTTL keeps the public browse path cheap without letting stale
// availability linger; every mutation also invalidates explicitly.
const hostelCacheTTL = 30 * time.Second

type HostelService struct {
	hostelRepo  models.HostelRepo
	bookingRepo models.BookingRepo
	cache       *ccache.Cache[*models.Hostel]
}

func NewHostelService(hostelRepo models.HostelRepo, bookingRepo models.BookingRepo) *HostelService {
	return &HostelService{
		hostelRepo:  hostelRepo,
		bookingRepo: bookingRepo,
		cache:       ccache.New(ccache.Configure[*models.Hostel]().MaxSize(512)),
	}
}

func (hs *HostelService) Create(ctx context.Context, ownerID string, hostel *models.Hostel) (*models.Hostel, error) {
	if err := models.Validate.Struct(hostel); err != nil {
		return nil, apperr.Wrap(apperr.Validation, "invalid hostel data", err)
	}

	now := time.Now()
	hostel.Code = helpers.GenerateHostelCode()
	hostel.OwnerID = ownerID
	hostel.CreatedAt = now
	hostel.UpdatedAt = now

	// Availability starts at nominal inventory unless the admin seeded a
	// lower figure.
	for i := range hostel.RoomTypes {
		if hostel.RoomTypes[i].Available == 0 {
			hostel.RoomTypes[i].Available = hostel.RoomTypes[i].TotalUnits
		}
		if hostel.RoomTypes[i].Available > hostel.RoomTypes[i].TotalUnits {
			return nil, apperr.Newf(apperr.Validation,
				"room type %q: available exceeds total units", hostel.RoomTypes[i].Label)
		}
	}

	return hs.hostelRepo.CreateHostel(ctx, hostel)
}

func (hs *HostelService) List(ctx context.Context, offset, limit int) ([]*models.Hostel, int, error) {
	if offset < 0 || limit <= 0 {
		return nil, 0, apperr.New(apperr.Validation, "invalid offset or limit")
	}
	return hs.hostelRepo.ListHostels(ctx, offset, limit)
}

// GetByCode serves the public detail page through a short-lived cache.
func (hs *HostelService) GetByCode(ctx context.Context, code string) (*models.Hostel, error) {
	if code == "" {
		return nil, apperr.New(apperr.Validation, "hostel code is required")
	}

	if item := hs.cache.Get(code); item != nil && !item.Expired() {
		return item.Value(), nil
	}

	hostel, err := hs.hostelRepo.GetHostelByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	hs.cache.Set(code, hostel, hostelCacheTTL)
	return hostel, nil
}

// Update applies a partial update. Identity and ownership fields are frozen
// at creation and any attempt to touch them is rejected.
func (hs *HostelService) Update(ctx context.Context, code string, fields map[string]interface{}) (*models.Hostel, error) {
	if code == "" {
		return nil, apperr.New(apperr.Validation, "hostel code is required")
	}
	if len(fields) == 0 {
		return nil, apperr.New(apperr.Validation, "no fields to update")
	}
	for field := range fields {
		if models.IsHostelIdentityField(field) {
			return nil, apperr.Newf(apperr.Validation, "field %q cannot be changed", field)
		}
	}

	fields["updated_at"] = time.Now()

	updated, err := hs.hostelRepo.UpdateHostel(ctx, code, fields)
	if err != nil {
		return nil, err
	}

	hs.cache.Delete(code)
	return updated, nil
}

// Delete removes a hostel, refusing while pending or confirmed bookings
// still reference it.
func (hs *HostelService) Delete(ctx context.Context, code string) error {
	if code == "" {
		return apperr.New(apperr.Validation, "hostel code is required")
	}

	active, err := hs.bookingRepo.CountActiveByHostel(ctx, code)
	if err != nil {
		return err
	}
	if active > 0 {
		return apperr.Newf(apperr.Conflict,
			"hostel has %d active bookings; cancel them before deleting", active)
	}

	if err := hs.hostelRepo.DeleteHostel(ctx, code); err != nil {
		return err
	}

	hs.cache.Delete(code)
	return nil
}

// InvalidateCache drops the cached copy of a hostel. The booking workflow
// calls this after reserving or releasing units so browse pages do not
// advertise counts a booking just consumed.
func (hs *HostelService) InvalidateCache(code string) {
	hs.cache.Delete(code)
}
