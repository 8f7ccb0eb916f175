package api

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/soaringjerry/fairway/internal/services"
)

// memoryStore keeps the hotel catalogue and reservations in process. Atomic sections are
// serialized by txMu; individual reads and writes take mu.
type memoryStore struct {
	mu           sync.RWMutex
	txMu         sync.Mutex
	hotels       map[int64]*services.Hotel
	roomTypes    map[int64]*services.RoomType
	rooms        map[int64][]services.Room
	prices       map[int64]map[string]services.RoomPrice
	reservations map[string]*services.Reservation
	nextID       int64
}

// NewMemoryStore builds a store holding the given catalogue. Room types and rooms are taken from
// each hotel's RoomTypes.
func NewMemoryStore(hotels []services.Hotel, prices []services.RoomPrice) services.ReservationStore {
	s := &memoryStore{
		hotels:       map[int64]*services.Hotel{},
		roomTypes:    map[int64]*services.RoomType{},
		rooms:        map[int64][]services.Room{},
		prices:       map[int64]map[string]services.RoomPrice{},
		reservations: map[string]*services.Reservation{},
	}
	now := time.Now().UTC()
	for _, h := range hotels {
		hc := h
		for _, rt := range h.RoomTypes {
			rtc := rt
			rtc.HotelID = h.ID
			rtc.Rooms, rtc.RoomPrices = nil, nil
			s.roomTypes[rt.ID] = &rtc
			s.rooms[rt.ID] = append([]services.Room(nil), rt.Rooms...)
		}
		hc.RoomTypes = nil
		if hc.CreatedAt.IsZero() {
			hc.CreatedAt, hc.UpdatedAt = now, now
		}
		s.hotels[h.ID] = &hc
	}
	_ = s.UpsertRoomPrices(context.Background(), prices)
	return s
}

var _ services.ReservationStore = (*memoryStore)(nil)

func (s *memoryStore) sortedRoomTypes(hotelID int64) []*services.RoomType {
	out := []*services.RoomType{}
	for _, rt := range s.roomTypes {
		if rt.HotelID == hotelID && rt.Status == services.HotelActive {
			out = append(out, rt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *memoryStore) ListHotels(ctx context.Context) ([]services.HotelSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []services.HotelSummary{}
	for _, h := range s.hotels {
		if h.Status != services.HotelActive {
			continue
		}
		sum := services.HotelSummary{Hotel: *h, RoomTypes: []services.RoomTypeSummary{}}
		for _, rt := range s.sortedRoomTypes(h.ID) {
			sum.RoomTypes = append(sum.RoomTypes, services.RoomTypeSummary{
				ID:           rt.ID,
				Name:         rt.Name,
				BasePrice:    rt.BasePrice,
				MaxOccupancy: rt.MaxOccupancy,
				Images:       rt.Images,
			})
		}
		out = append(out, sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memoryStore) GetHotel(ctx context.Context, id int64, priceFrom string, priceLimit int) (*services.Hotel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.hotels[id]
	if !ok || h.Status != services.HotelActive {
		return nil, nil
	}
	out := *h
	out.RoomTypes = []services.RoomType{}
	for _, rt := range s.sortedRoomTypes(id) {
		rtc := *rt
		for _, room := range s.rooms[rt.ID] {
			if room.Status == services.RoomAvailable {
				rtc.Rooms = append(rtc.Rooms, room)
			}
		}
		for _, p := range s.prices[rt.ID] {
			if p.PriceDate >= priceFrom {
				rtc.RoomPrices = append(rtc.RoomPrices, p)
			}
		}
		sort.Slice(rtc.RoomPrices, func(i, j int) bool { return rtc.RoomPrices[i].PriceDate < rtc.RoomPrices[j].PriceDate })
		if priceLimit > 0 && len(rtc.RoomPrices) > priceLimit {
			rtc.RoomPrices = rtc.RoomPrices[:priceLimit]
		}
		out.RoomTypes = append(out.RoomTypes, rtc)
	}
	return &out, nil
}

func (s *memoryStore) GetRoomType(ctx context.Context, id int64) (*services.RoomType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rt, ok := s.roomTypes[id]
	if !ok || rt.Status != services.HotelActive {
		return nil, nil
	}
	out := *rt
	if h, ok := s.hotels[rt.HotelID]; ok {
		out.HotelName = h.Name
	}
	return &out, nil
}

func (s *memoryStore) CountOperableRooms(ctx context.Context, roomTypeID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, room := range s.rooms[roomTypeID] {
		if room.Status == services.RoomAvailable {
			n++
		}
	}
	return n, nil
}

func isActiveStatus(status int) bool {
	for _, s := range services.ActiveReservationStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func (s *memoryStore) CountOverlapping(ctx context.Context, roomTypeID int64, from, to string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, r := range s.reservations {
		if r.RoomTypeID == roomTypeID && isActiveStatus(r.Status) && services.RangesOverlap(r.CheckInDate, r.CheckOutDate, from, to) {
			n++
		}
	}
	return n, nil
}

func (s *memoryStore) NightlyPrices(ctx context.Context, roomTypeID int64, from, to string) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := map[string]int64{}
	for date, p := range s.prices[roomTypeID] {
		if date >= from && date < to {
			out[date] = p.Price
		}
	}
	return out, nil
}

func (s *memoryStore) ReservationCodeExists(ctx context.Context, code string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.reservations[code]
	return ok, nil
}

func (s *memoryStore) InsertReservation(ctx context.Context, r *services.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reservations[r.ReservationCode]; ok {
		return services.ErrCodeTaken
	}
	s.nextID++
	r.ID = s.nextID
	stored := *r
	s.reservations[r.ReservationCode] = &stored
	return nil
}

func (s *memoryStore) GetReservationByCode(ctx context.Context, code string) (*services.ReservationDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reservations[code]
	if !ok {
		return nil, nil
	}
	d := &services.ReservationDetail{Reservation: *r}
	if h, ok := s.hotels[r.HotelID]; ok {
		d.Hotel = *h
	}
	if rt, ok := s.roomTypes[r.RoomTypeID]; ok {
		d.RoomType = *rt
		d.RoomType.HotelName = d.Hotel.Name
	}
	if r.RoomID != nil {
		for _, room := range s.rooms[r.RoomTypeID] {
			if room.ID == *r.RoomID {
				rc := room
				d.Room = &rc
				break
			}
		}
	}
	return d, nil
}

func (s *memoryStore) UpdateReservationStatus(ctx context.Context, code string, status, payment int, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reservations[code]
	if !ok {
		return services.NewNotFoundError("err.reservation_not_found", "reservation not found")
	}
	r.Status, r.PaymentStatus, r.UpdatedAt = status, payment, at
	return nil
}

func (s *memoryStore) UpsertRoomPrices(ctx context.Context, prices []services.RoomPrice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range prices {
		byDate := s.prices[p.RoomTypeID]
		if byDate == nil {
			byDate = map[string]services.RoomPrice{}
			s.prices[p.RoomTypeID] = byDate
		}
		if prev, ok := byDate[p.PriceDate]; ok {
			p.ID, p.CreatedAt = prev.ID, prev.CreatedAt
		} else {
			s.nextID++
			p.ID = s.nextID
		}
		byDate[p.PriceDate] = p
	}
	return nil
}

func (s *memoryStore) Atomic(ctx context.Context, fn func(tx services.ReservationStore) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(memoryTx{s})
}

// memoryTx is the store as seen inside an Atomic section.
type memoryTx struct {
	*memoryStore
}

func (t memoryTx) Atomic(ctx context.Context, fn func(tx services.ReservationStore) error) error {
	return fn(t)
}
