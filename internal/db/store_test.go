package db

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/soaringjerry/fairway/internal/config"
	"github.com/soaringjerry/fairway/internal/services"
)

var seedDay = time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	ctx := context.Background()
	gdb, dialect, err := Open(ctx, config.StoreConfig{
		Backend:    config.StoreSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "fairway.db"),
	}, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	seeded, err := Seed(ctx, gdb, seedDay)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !seeded {
		t.Fatalf("expected fresh database to be seeded")
	}
	return NewGormStore(gdb, dialect)
}

func sampleReservation(code, in, out string) *services.Reservation {
	now := time.Now().UTC()
	return &services.Reservation{
		ReservationCode: code,
		HotelID:         1,
		RoomTypeID:      1,
		GuestName:       "홍길동",
		GuestPhone:      "010-0000-0000",
		CheckInDate:     in,
		CheckOutDate:    out,
		Adults:          2,
		TotalNights:     1,
		TotalAmount:     150000,
		Status:          services.ReservationConfirmed,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	seeded, err := Seed(context.Background(), s.db, seedDay)
	if err != nil {
		t.Fatal(err)
	}
	if seeded {
		t.Fatalf("second seed should be a no-op")
	}
}

func TestListHotels(t *testing.T) {
	s := newTestStore(t)
	hotels, err := s.ListHotels(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(hotels) != 2 {
		t.Fatalf("expected 2 hotels, got %d", len(hotels))
	}
	if len(hotels[0].RoomTypes) != 2 || hotels[0].RoomTypes[0].BasePrice != 150000 {
		t.Fatalf("unexpected room types %+v", hotels[0].RoomTypes)
	}
	if len(hotels[0].Images) != 1 {
		t.Fatalf("images not decoded: %+v", hotels[0].Images)
	}
}

func TestGetHotel(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	h, err := s.GetHotel(ctx, 1, seedDay.Format(services.DateLayout), 3)
	if err != nil {
		t.Fatal(err)
	}
	if h == nil || h.Name != "페어웨이 리조트 제주" {
		t.Fatalf("unexpected hotel %+v", h)
	}
	rt := h.RoomTypes[0]
	if len(rt.Rooms) != 2 {
		t.Fatalf("maintenance room should be excluded, got %d rooms", len(rt.Rooms))
	}
	if len(rt.RoomPrices) != 3 {
		t.Fatalf("expected price limit 3, got %d", len(rt.RoomPrices))
	}
	for i := 1; i < len(rt.RoomPrices); i++ {
		if rt.RoomPrices[i-1].PriceDate >= rt.RoomPrices[i].PriceDate {
			t.Fatalf("prices not ascending: %+v", rt.RoomPrices)
		}
	}

	missing, err := s.GetHotel(ctx, 99, "2030-01-01", 30)
	if err != nil || missing != nil {
		t.Fatalf("expected nil hotel, got %+v %v", missing, err)
	}
}

func TestGetRoomTypeCarriesHotelName(t *testing.T) {
	s := newTestStore(t)
	rt, err := s.GetRoomType(context.Background(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if rt == nil || rt.HotelName != "그린힐 골프텔 가평" || rt.MaxOccupancy != 2 {
		t.Fatalf("unexpected room type %+v", rt)
	}
	missing, err := s.GetRoomType(context.Background(), 42)
	if err != nil || missing != nil {
		t.Fatalf("expected nil room type, got %+v %v", missing, err)
	}
}

func TestCountOverlappingBoundaries(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if err := s.InsertReservation(ctx, sampleReservation("AAAA0001", "2099-03-10", "2099-03-12")); err != nil {
		t.Fatal(err)
	}
	cancelled := sampleReservation("AAAA0002", "2099-03-10", "2099-03-12")
	cancelled.Status = services.ReservationCancelled
	if err := s.InsertReservation(ctx, cancelled); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		from, to string
		want     int
	}{
		{"2099-03-08", "2099-03-10", 0},
		{"2099-03-12", "2099-03-14", 0},
		{"2099-03-11", "2099-03-13", 1},
		{"2099-03-09", "2099-03-15", 1},
	}
	for _, c := range cases {
		got, err := s.CountOverlapping(ctx, 1, c.from, c.to)
		if err != nil {
			t.Fatal(err)
		}
		if got != c.want {
			t.Fatalf("%s..%s: expected %d, got %d", c.from, c.to, c.want, got)
		}
	}
	n, err := s.CountOperableRooms(ctx, 1)
	if err != nil || n != 2 {
		t.Fatalf("expected 2 operable rooms, got %d %v", n, err)
	}
}

func TestInsertDuplicateCodeInsideTransaction(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if err := s.InsertReservation(ctx, sampleReservation("DUPE0001", "2099-04-01", "2099-04-02")); err != nil {
		t.Fatal(err)
	}
	err := s.Atomic(ctx, func(tx services.ReservationStore) error {
		if err := tx.InsertReservation(ctx, sampleReservation("DUPE0001", "2099-04-01", "2099-04-02")); !errors.Is(err, services.ErrCodeTaken) {
			t.Fatalf("expected ErrCodeTaken, got %v", err)
		}
		r := sampleReservation("FRESH001", "2099-04-01", "2099-04-02")
		if err := tx.InsertReservation(ctx, r); err != nil {
			return err
		}
		if r.ID == 0 {
			t.Fatalf("expected id to be assigned")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("transaction should survive the collision: %v", err)
	}
	exists, err := s.ReservationCodeExists(ctx, "FRESH001")
	if err != nil || !exists {
		t.Fatalf("expected FRESH001 to be committed, got %v %v", exists, err)
	}
}

func TestAtomicRollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")
	err := s.Atomic(ctx, func(tx services.ReservationStore) error {
		if err := tx.InsertReservation(ctx, sampleReservation("ROLL0001", "2099-05-01", "2099-05-02")); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	exists, err := s.ReservationCodeExists(ctx, "ROLL0001")
	if err != nil || exists {
		t.Fatalf("expected rollback, got %v %v", exists, err)
	}
}

func TestUpsertRoomPrices(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	first := []services.RoomPrice{{RoomTypeID: 3, PriceDate: "2099-06-01", Price: 120000}}
	if err := s.UpsertRoomPrices(ctx, first); err != nil {
		t.Fatal(err)
	}
	second := []services.RoomPrice{
		{RoomTypeID: 3, PriceDate: "2099-06-01", Price: 130000, IsHoliday: true},
		{RoomTypeID: 3, PriceDate: "2099-06-02", Price: 90000},
	}
	if err := s.UpsertRoomPrices(ctx, second); err != nil {
		t.Fatal(err)
	}
	prices, err := s.NightlyPrices(ctx, 3, "2099-06-01", "2099-06-03")
	if err != nil {
		t.Fatal(err)
	}
	if len(prices) != 2 || prices["2099-06-01"] != 130000 || prices["2099-06-02"] != 90000 {
		t.Fatalf("unexpected prices %+v", prices)
	}
	// The checkout night is excluded.
	prices, err = s.NightlyPrices(ctx, 3, "2099-06-01", "2099-06-02")
	if err != nil || len(prices) != 1 {
		t.Fatalf("expected one night, got %+v %v", prices, err)
	}
}

func TestReservationFlowAgainstSQLite(t *testing.T) {
	s := newTestStore(t)
	svc := services.NewReservationService(s, time.UTC, nil)
	ctx := context.Background()

	req := services.CreateReservationRequest{
		RoomTypeID:   3,
		CheckInDate:  "2099-07-01",
		CheckOutDate: "2099-07-03",
		GuestName:    "김철수",
		GuestPhone:   "010-1111-2222",
	}
	first, err := svc.Create(ctx, req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.TotalAmount != 200000 || first.TotalNights != 2 || first.Hotel.Name != "그린힐 골프텔 가평" {
		t.Fatalf("unexpected reservation %+v", first)
	}
	if _, err := svc.Create(ctx, req); err != nil {
		t.Fatalf("second room should be available: %v", err)
	}
	if _, err := svc.Create(ctx, req); !errors.Is(err, services.ErrNoAvailability) {
		t.Fatalf("expected ErrNoAvailability, got %v", err)
	}

	got, err := svc.Lookup(ctx, first.ReservationCode)
	if err != nil {
		t.Fatal(err)
	}
	if got.RoomType.Name != "스탠다드 트윈" || got.Hotel.Address == "" {
		t.Fatalf("lookup missing joins: %+v", got)
	}

	if _, err := svc.Transition(ctx, first.ReservationCode, services.ActionCancel); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := svc.Create(ctx, req); err != nil {
		t.Fatalf("cancelled reservation should free capacity: %v", err)
	}
	after, err := svc.Lookup(ctx, first.ReservationCode)
	if err != nil || after.Status != services.ReservationCancelled {
		t.Fatalf("expected cancelled status, got %+v %v", after, err)
	}
}

func TestConcurrentCreateAgainstSQLite(t *testing.T) {
	s := newTestStore(t)
	svc := services.NewReservationService(s, time.UTC, nil)
	// Room type 2 has a single operable room.
	req := services.CreateReservationRequest{
		RoomTypeID:   2,
		CheckInDate:  "2099-08-01",
		CheckOutDate: "2099-08-03",
		GuestName:    "박영희",
		GuestPhone:   "010-3333-4444",
	}

	const n = 8
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(context.Background(), req)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	booked, full := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			booked++
		case errors.Is(err, services.ErrNoAvailability):
			full++
		default:
			t.Fatalf("unexpected error %v", err)
		}
	}
	if booked != 1 || full != n-1 {
		t.Fatalf("booked=%d full=%d", booked, full)
	}
	overlapping, err := s.CountOverlapping(context.Background(), 2, "2099-08-01", "2099-08-03")
	if err != nil || overlapping != 1 {
		t.Fatalf("overlapping = %d (%v), want 1", overlapping, err)
	}
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	gdb, dialect, err := Open(ctx, config.StoreConfig{Backend: config.StorePostgres, PostgresDSN: dsn}, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if dialect != DialectPostgres {
		t.Fatalf("unexpected dialect %s", dialect)
	}
	if _, err := Seed(ctx, gdb, seedDay); err != nil {
		t.Fatal(err)
	}
	s := NewGormStore(gdb, dialect)
	if _, err := s.ListHotels(ctx); err != nil {
		t.Fatal(err)
	}
	code, err := services.GenerateReservationCode()
	if err != nil {
		t.Fatal(err)
	}
	err = s.Atomic(ctx, func(tx services.ReservationStore) error {
		if err := tx.InsertReservation(ctx, sampleReservation(code, "2099-08-01", "2099-08-02")); err != nil {
			return err
		}
		if err := tx.InsertReservation(ctx, sampleReservation(code, "2099-08-01", "2099-08-02")); !errors.Is(err, services.ErrCodeTaken) {
			t.Fatalf("expected ErrCodeTaken, got %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("transaction should survive the collision: %v", err)
	}
}
