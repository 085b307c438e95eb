package services

import (
	"context"

	"github.com/harentsoaR/doctors-portal-api/internal/models"
)

type CatalogReader interface {
	ListTreatments(ctx context.Context) ([]models.Treatment, error)
	ListBookingsByDate(ctx context.Context, date string) ([]models.Booking, error)
}

// AvailabilityService answers which slots of each treatment are still open
// on a given date.
type AvailabilityService struct {
	catalog CatalogReader
}

func NewAvailabilityService(catalog CatalogReader) *AvailabilityService {
	return &AvailabilityService{catalog: catalog}
}

// Available returns every treatment with the slots already booked on date
// removed. The date is matched verbatim against stored bookings, so an empty
// or malformed date matches nothing and all slots come back open.
func (s *AvailabilityService) Available(ctx context.Context, date string) ([]models.Treatment, error) {
	treatments, err := s.catalog.ListTreatments(ctx)
	if err != nil {
		return nil, err
	}
	bookings, err := s.catalog.ListBookingsByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	return FilterAvailable(treatments, bookings), nil
}

// FilterAvailable drops from each treatment the slots consumed by bookings of
// that treatment. Slot order is preserved and every treatment is kept, even
// one with nothing left. The inputs are not modified.
func FilterAvailable(treatments []models.Treatment, bookings []models.Booking) []models.Treatment {
	out := make([]models.Treatment, 0, len(treatments))
	for _, t := range treatments {
		booked := make(map[string]struct{})
		for _, b := range bookings {
			if b.Treatment == t.Name {
				booked[b.Slot] = struct{}{}
			}
		}

		open := make([]string, 0, len(t.Slots))
		for _, slot := range t.Slots {
			if _, taken := booked[slot]; !taken {
				open = append(open, slot)
			}
		}
		t.Slots = open
		out = append(out, t)
	}
	return out
}
