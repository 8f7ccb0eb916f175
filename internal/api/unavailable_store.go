package api

import (
	"context"
	"time"

	"github.com/soaringjerry/fairway/internal/services"
)

// unavailableStore is bound when no reservation backend is configured. Every call reports the
// backend as unavailable so clients can fall back to sample data.
type unavailableStore struct{}

func NewUnavailableStore() services.ReservationStore { return unavailableStore{} }

func (unavailableStore) ListHotels(context.Context) ([]services.HotelSummary, error) {
	return nil, services.ErrBackendUnavailable
}

func (unavailableStore) GetHotel(context.Context, int64, string, int) (*services.Hotel, error) {
	return nil, services.ErrBackendUnavailable
}

func (unavailableStore) GetRoomType(context.Context, int64) (*services.RoomType, error) {
	return nil, services.ErrBackendUnavailable
}

func (unavailableStore) CountOperableRooms(context.Context, int64) (int, error) {
	return 0, services.ErrBackendUnavailable
}

func (unavailableStore) CountOverlapping(context.Context, int64, string, string) (int, error) {
	return 0, services.ErrBackendUnavailable
}

func (unavailableStore) NightlyPrices(context.Context, int64, string, string) (map[string]int64, error) {
	return nil, services.ErrBackendUnavailable
}

func (unavailableStore) ReservationCodeExists(context.Context, string) (bool, error) {
	return false, services.ErrBackendUnavailable
}

func (unavailableStore) InsertReservation(context.Context, *services.Reservation) error {
	return services.ErrBackendUnavailable
}

func (unavailableStore) GetReservationByCode(context.Context, string) (*services.ReservationDetail, error) {
	return nil, services.ErrBackendUnavailable
}

func (unavailableStore) UpdateReservationStatus(context.Context, string, int, int, time.Time) error {
	return services.ErrBackendUnavailable
}

func (unavailableStore) UpsertRoomPrices(context.Context, []services.RoomPrice) error {
	return services.ErrBackendUnavailable
}

func (unavailableStore) Atomic(context.Context, func(services.ReservationStore) error) error {
	return services.ErrBackendUnavailable
}
