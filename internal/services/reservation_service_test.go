package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type reservationStubStore struct {
	mu            sync.Mutex
	roomTypes     map[int64]*RoomType
	rooms         map[int64]int
	prices        map[int64]map[string]int64
	reservations  []*Reservation
	takenOnInsert map[string]bool
	nextID        int64
	lookups       int
}

func newReservationStubStore() *reservationStubStore {
	return &reservationStubStore{
		roomTypes: map[int64]*RoomType{
			1: {ID: 1, HotelID: 10, Name: "Deluxe", MaxOccupancy: 2, BasePrice: 100000, Status: 1, HotelName: "Seaside"},
		},
		rooms:         map[int64]int{1: 2},
		prices:        map[int64]map[string]int64{},
		takenOnInsert: map[string]bool{},
	}
}

func (s *reservationStubStore) ListHotels(context.Context) ([]HotelSummary, error) { return nil, nil }

func (s *reservationStubStore) GetHotel(_ context.Context, id int64, _ string, _ int) (*Hotel, error) {
	if id != 10 {
		return nil, nil
	}
	return &Hotel{ID: 10, Name: "Seaside", RoomTypes: []RoomType{{ID: 1, Rooms: []Room{{Status: 1}, {Status: 1}}}}}, nil
}

func (s *reservationStubStore) GetRoomType(_ context.Context, id int64) (*RoomType, error) {
	rt, ok := s.roomTypes[id]
	if !ok {
		return nil, nil
	}
	dup := *rt
	return &dup, nil
}

func (s *reservationStubStore) CountOperableRooms(_ context.Context, id int64) (int, error) {
	return s.rooms[id], nil
}

func (s *reservationStubStore) CountOverlapping(_ context.Context, id int64, from, to string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.reservations {
		if r.RoomTypeID != id || (r.Status != ReservationConfirmed && r.Status != ReservationCheckedIn) {
			continue
		}
		if RangesOverlap(r.CheckInDate, r.CheckOutDate, from, to) {
			n++
		}
	}
	return n, nil
}

func (s *reservationStubStore) NightlyPrices(_ context.Context, id int64, from, to string) (map[string]int64, error) {
	out := map[string]int64{}
	for d, p := range s.prices[id] {
		if d >= from && d < to {
			out[d] = p
		}
	}
	return out, nil
}

func (s *reservationStubStore) ReservationCodeExists(_ context.Context, code string) (bool, error) {
	for _, r := range s.reservations {
		if r.ReservationCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (s *reservationStubStore) InsertReservation(_ context.Context, r *Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.takenOnInsert[r.ReservationCode] {
		return ErrCodeTaken
	}
	s.nextID++
	r.ID = s.nextID
	dup := *r
	s.reservations = append(s.reservations, &dup)
	return nil
}

func (s *reservationStubStore) GetReservationByCode(_ context.Context, code string) (*ReservationDetail, error) {
	s.lookups++
	for _, r := range s.reservations {
		if r.ReservationCode == code {
			return &ReservationDetail{Reservation: *r}, nil
		}
	}
	return nil, nil
}

func (s *reservationStubStore) UpdateReservationStatus(_ context.Context, code string, status, payment int, at time.Time) error {
	for _, r := range s.reservations {
		if r.ReservationCode == code {
			r.Status, r.PaymentStatus, r.UpdatedAt = status, payment, at
			return nil
		}
	}
	return errors.New("missing")
}

func (s *reservationStubStore) UpsertRoomPrices(_ context.Context, prices []RoomPrice) error {
	for _, p := range prices {
		if s.prices[p.RoomTypeID] == nil {
			s.prices[p.RoomTypeID] = map[string]int64{}
		}
		s.prices[p.RoomTypeID][p.PriceDate] = p.Price
	}
	return nil
}

func (s *reservationStubStore) Atomic(_ context.Context, fn func(ReservationStore) error) error {
	return fn(s)
}

func newTestReservationService(store ReservationStore) *ReservationService {
	svc := NewReservationService(store, time.UTC, nil)
	svc.now = func() time.Time { return time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC) }
	return svc
}

func intPtr(v int) *int { return &v }

func validRequest() CreateReservationRequest {
	return CreateReservationRequest{
		RoomTypeID:   1,
		CheckInDate:  "2025-01-10",
		CheckOutDate: "2025-01-13",
		GuestName:    "Kim",
		GuestPhone:   "010-0000-0000",
	}
}

func TestTotalPriceWithoutRows(t *testing.T) {
	stay, err := ParseStay("2025-01-10", "2025-01-13", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if got := TotalPrice(stay.Dates(), nil, 100000); got != 300000 || stay.Nights() != 3 {
		t.Fatalf("total=%d nights=%d", got, stay.Nights())
	}
	got := TotalPrice(stay.Dates(), map[string]int64{"2025-01-11": 150000}, 100000)
	if got != 350000 {
		t.Fatalf("mixed total = %d", got)
	}
	if PricePerNight(350000, 3) != 116667 {
		t.Fatalf("price per night = %d", PricePerNight(350000, 3))
	}
}

func TestIsAvailableCapacity(t *testing.T) {
	if IsAvailable(2, 2) {
		t.Fatalf("2 rooms, 2 overlapping must be unavailable")
	}
	if !IsAvailable(1, 2) {
		t.Fatalf("2 rooms, 1 overlapping must be available")
	}
	if IsAvailable(0, 0) {
		t.Fatalf("no operable rooms must be unavailable")
	}
}

func TestRangesOverlapBoundaries(t *testing.T) {
	cases := []struct {
		in, out string
		want    bool
	}{
		{"2025-01-13", "2025-01-15", false},
		{"2025-01-08", "2025-01-10", false},
		{"2025-01-12", "2025-01-14", true},
		{"2025-01-09", "2025-01-11", true},
		{"2025-01-01", "2025-01-31", true},
	}
	for _, c := range cases {
		if got := RangesOverlap(c.in, c.out, "2025-01-10", "2025-01-13"); got != c.want {
			t.Fatalf("RangesOverlap(%s,%s)=%v, want %v", c.in, c.out, got, c.want)
		}
	}
}

func TestParseStayValidation(t *testing.T) {
	today := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	if _, err := ParseStay("2025-01-04", "2025-01-06", today); !errors.Is(err, ErrCheckInPast) {
		t.Fatalf("expected check-in past, got %v", err)
	}
	if _, err := ParseStay("2025-01-06", "2025-01-06", today); !errors.Is(err, ErrCheckOutBefore) {
		t.Fatalf("expected check-out before, got %v", err)
	}
	if _, err := ParseStay("2025/01/06", "2025-01-07", today); err == nil {
		t.Fatalf("expected bad date error")
	}
	if _, err := ParseStay("2025-01-05", "2025-01-06", today); err != nil {
		t.Fatalf("today is a valid check-in: %v", err)
	}
}

func TestCivilTodayUsesLocation(t *testing.T) {
	seoul := time.FixedZone("KST", 9*3600)
	now := time.Date(2025, 1, 4, 20, 0, 0, 0, time.UTC)
	if got := CivilToday(now, seoul).Format(DateLayout); got != "2025-01-05" {
		t.Fatalf("CivilToday = %s", got)
	}
}

func TestCreateReservation(t *testing.T) {
	store := newReservationStubStore()
	svc := newTestReservationService(store)
	svc.codeGen = func() (string, error) { return "ABCD1234", nil }

	d, err := svc.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if d.ReservationCode != "ABCD1234" || d.TotalAmount != 300000 || d.TotalNights != 3 {
		t.Fatalf("unexpected reservation %+v", d.Reservation)
	}
	if d.Adults != 1 || d.Children != 0 || d.Status != ReservationConfirmed || d.PaymentStatus != PaymentUnpaid {
		t.Fatalf("defaults not applied: %+v", d.Reservation)
	}
	if d.Hotel.Name != "Seaside" || d.RoomType.Name != "Deluxe" {
		t.Fatalf("projection missing names: %+v", d)
	}
}

func TestCreateReservationValidationOrder(t *testing.T) {
	svc := newTestReservationService(newReservationStubStore())
	ctx := context.Background()

	req := validRequest()
	req.GuestPhone = ""
	assertCode(t, svc, ctx, req, ErrorInvalid)

	req = validRequest()
	req.CheckInDate = "2025-01-01"
	req.RoomTypeID = 99
	if _, err := svc.Create(ctx, req); !errors.Is(err, ErrCheckInPast) {
		t.Fatalf("range check must precede room type lookup, got %v", err)
	}

	req = validRequest()
	req.RoomTypeID = 99
	assertCode(t, svc, ctx, req, ErrorNotFound)

	req = validRequest()
	req.Adults, req.Children = intPtr(2), intPtr(1)
	assertCode(t, svc, ctx, req, ErrorInvalid)

	req = validRequest()
	req.GuestEmail = "not-an-email"
	assertCode(t, svc, ctx, req, ErrorInvalid)
}

func assertCode(t *testing.T, svc *ReservationService, ctx context.Context, req CreateReservationRequest, want ErrorCode) {
	t.Helper()
	_, err := svc.Create(ctx, req)
	se, ok := AsServiceError(err)
	if !ok || se.Code != want {
		t.Fatalf("expected %s, got %v", want, err)
	}
}

func TestCreateReservationCapacity(t *testing.T) {
	store := newReservationStubStore()
	svc := newTestReservationService(store)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := svc.Create(ctx, validRequest()); err != nil {
			t.Fatalf("Create #%d: %v", i, err)
		}
	}
	if _, err := svc.Create(ctx, validRequest()); !errors.Is(err, ErrNoAvailability) {
		t.Fatalf("expected no availability, got %v", err)
	}
	// Back-to-back stay starts on the check-out day.
	req := validRequest()
	req.CheckInDate, req.CheckOutDate = "2025-01-13", "2025-01-14"
	if _, err := svc.Create(ctx, req); err != nil {
		t.Fatalf("touching stay should be bookable: %v", err)
	}
}

func TestCreateReservationCodeExhausted(t *testing.T) {
	store := newReservationStubStore()
	store.reservations = append(store.reservations, &Reservation{ReservationCode: "SAMECODE", RoomTypeID: 2})
	svc := newTestReservationService(store)
	calls := 0
	svc.codeGen = func() (string, error) { calls++; return "SAMECODE", nil }

	_, err := svc.Create(context.Background(), validRequest())
	if !errors.Is(err, ErrCodeGenerationExhausted) {
		t.Fatalf("expected exhausted, got %v", err)
	}
	if calls != MaxCodeAttempts {
		t.Fatalf("attempts = %d, want %d", calls, MaxCodeAttempts)
	}
}

func TestCreateReservationInsertCollisionRetries(t *testing.T) {
	store := newReservationStubStore()
	store.takenOnInsert["RACE0001"] = true
	svc := newTestReservationService(store)
	codes := []string{"RACE0001", "FRESH001"}
	svc.codeGen = func() (string, error) {
		c := codes[0]
		codes = codes[1:]
		return c, nil
	}
	d, err := svc.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if d.ReservationCode != "FRESH001" {
		t.Fatalf("code = %s", d.ReservationCode)
	}
}

func TestGeneratedCodesAreDistinct(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		c, err := GenerateReservationCode()
		if err != nil {
			t.Fatal(err)
		}
		if !IsReservationCode(c) {
			t.Fatalf("bad code %q", c)
		}
		if seen[c] {
			t.Fatalf("duplicate code %q", c)
		}
		seen[c] = true
	}
}

func TestQuote(t *testing.T) {
	store := newReservationStubStore()
	store.prices[1] = map[string]int64{"2025-01-10": 120000}
	svc := newTestReservationService(store)
	q, err := svc.Quote(context.Background(), 1, "2025-01-10", "2025-01-13")
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if !q.Available || q.Nights != 3 || q.TotalPrice != 320000 || q.PricePerNight != 106667 {
		t.Fatalf("unexpected quote %+v", q)
	}
	if q.RoomType.HotelName != "Seaside" {
		t.Fatalf("hotel name = %q", q.RoomType.HotelName)
	}
	if _, err := svc.Quote(context.Background(), 0, "", ""); err == nil {
		t.Fatalf("expected missing params error")
	}
	if _, err := svc.Quote(context.Background(), 7, "2025-01-10", "2025-01-13"); !errors.Is(err, ErrRoomTypeMissing) {
		t.Fatalf("expected room type missing, got %v", err)
	}
}

func TestLookupAndTransitions(t *testing.T) {
	store := newReservationStubStore()
	svc := newTestReservationService(store)
	svc.codeGen = func() (string, error) { return "LOOKUP01", nil }
	ctx := context.Background()
	if _, err := svc.Create(ctx, validRequest()); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Lookup(ctx, "lookup01"); err != nil {
		t.Fatalf("lookup should normalise case: %v", err)
	}
	if _, err := svc.Lookup(ctx, "NOPE0000"); err == nil {
		t.Fatalf("expected not found")
	}

	if _, err := svc.Transition(ctx, "LOOKUP01", ActionCheckOut); err == nil {
		t.Fatalf("check-out from confirmed must conflict")
	}
	d, err := svc.Transition(ctx, "LOOKUP01", ActionCheckIn)
	if err != nil || d.Status != ReservationCheckedIn {
		t.Fatalf("check-in: %v %+v", err, d)
	}
	d, err = svc.Transition(ctx, "LOOKUP01", ActionCheckOut)
	if err != nil || d.Status != ReservationCheckedOut {
		t.Fatalf("check-out: %v %+v", err, d)
	}
	_, err = svc.Transition(ctx, "LOOKUP01", ActionCancel)
	if se, ok := AsServiceError(err); !ok || se.Code != ErrorConflict {
		t.Fatalf("cancel after check-out must conflict, got %v", err)
	}
}

func TestMalformedCodesSkipTheStore(t *testing.T) {
	store := newReservationStubStore()
	svc := newTestReservationService(store)
	ctx := context.Background()
	for _, code := range []string{"NOPE", "ABCD-123", "ABCDEFGHI", "한글코드한글코드"} {
		_, err := svc.Lookup(ctx, code)
		if se, ok := AsServiceError(err); !ok || se.Code != ErrorNotFound {
			t.Fatalf("Lookup(%q) = %v, want not found", code, err)
		}
		if _, err := svc.Transition(ctx, code, ActionCancel); err == nil {
			t.Fatalf("Transition(%q) should fail", code)
		}
		if _, err := svc.SetPaymentStatus(ctx, code, PaymentPaid); err == nil {
			t.Fatalf("SetPaymentStatus(%q) should fail", code)
		}
	}
	if store.lookups != 0 {
		t.Fatalf("store queried %d times for malformed codes", store.lookups)
	}
	if _, err := svc.Lookup(ctx, "  "); err == nil {
		t.Fatal("blank code should be rejected")
	} else if se, _ := AsServiceError(err); se.Code != ErrorInvalid {
		t.Fatalf("blank code = %v, want invalid", err)
	}
}

func TestNextStatusCancelRefunds(t *testing.T) {
	status, payment, err := NextStatus(ActionCancel, ReservationConfirmed, PaymentPaid)
	if err != nil || status != ReservationCancelled || payment != PaymentRefunded {
		t.Fatalf("got %d %d %v", status, payment, err)
	}
	status, payment, err = NextStatus(ActionCancel, ReservationConfirmed, PaymentUnpaid)
	if err != nil || status != ReservationCancelled || payment != PaymentUnpaid {
		t.Fatalf("got %d %d %v", status, payment, err)
	}
	if _, _, err := NextStatus("delete", ReservationConfirmed, PaymentUnpaid); err == nil {
		t.Fatalf("expected unknown action error")
	}
}

func TestCancelledReservationFreesCapacity(t *testing.T) {
	store := newReservationStubStore()
	store.rooms[1] = 1
	svc := newTestReservationService(store)
	svc.codeGen = func() (string, error) { return "CANCEL01", nil }
	ctx := context.Background()
	if _, err := svc.Create(ctx, validRequest()); err != nil {
		t.Fatal(err)
	}
	ok, err := svc.IsAvailable(ctx, 1, "2025-01-11", "2025-01-12")
	if err != nil || ok {
		t.Fatalf("expected unavailable, got %v %v", ok, err)
	}
	if _, err := svc.Transition(ctx, "CANCEL01", ActionCancel); err != nil {
		t.Fatal(err)
	}
	ok, err = svc.IsAvailable(ctx, 1, "2025-01-11", "2025-01-12")
	if err != nil || !ok {
		t.Fatalf("cancelled reservation should free capacity, got %v %v", ok, err)
	}
}

func TestUpsertPricesKeepsSnapshots(t *testing.T) {
	store := newReservationStubStore()
	svc := newTestReservationService(store)
	svc.codeGen = func() (string, error) { return "SNAPSHOT", nil }
	ctx := context.Background()
	d, err := svc.Create(ctx, validRequest())
	if err != nil {
		t.Fatal(err)
	}
	prices, err := svc.UpsertPrices(ctx, 1, []PriceInput{{Date: "2025-01-11", Price: 200000}})
	if err != nil {
		t.Fatalf("UpsertPrices: %v", err)
	}
	if !prices[0].IsWeekend {
		t.Fatalf("2025-01-11 is a Saturday")
	}
	after, _ := svc.Lookup(ctx, "SNAPSHOT")
	if after.TotalAmount != d.TotalAmount {
		t.Fatalf("stored total changed from %d to %d", d.TotalAmount, after.TotalAmount)
	}
	if _, err := svc.UpsertPrices(ctx, 1, []PriceInput{{Date: "bad", Price: 1}}); err == nil {
		t.Fatalf("expected bad date error")
	}
}

func TestGetHotel(t *testing.T) {
	svc := newTestReservationService(newReservationStubStore())
	if _, err := svc.GetHotel(context.Background(), 0); err == nil {
		t.Fatalf("expected invalid id")
	}
	if _, err := svc.GetHotel(context.Background(), 11); err == nil {
		t.Fatalf("expected not found")
	}
	h, err := svc.GetHotel(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if h.RoomTypes[0].AvailableRooms == nil || *h.RoomTypes[0].AvailableRooms != 2 {
		t.Fatalf("available rooms = %v", h.RoomTypes[0].AvailableRooms)
	}
}

func TestStatusKeys(t *testing.T) {
	if ReservationStatusKey(2) != "reservation.status.2" || ReservationStatusKey(9) != "status.unknown" {
		t.Fatalf("reservation status keys wrong")
	}
	if PaymentStatusKey(1) != "payment.status.1" || PaymentStatusKey(-1) != "status.unknown" {
		t.Fatalf("payment status keys wrong")
	}
}
