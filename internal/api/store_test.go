package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/soaringjerry/fairway/internal/services"
)

func TestConcurrentCreateBooksLastRoomOnce(t *testing.T) {
	s := newTestServer(t, nil)
	body := `{"roomTypeId":1,"checkInDate":"2099-02-01","checkOutDate":"2099-02-03","guestName":"Kim","guestPhone":"010-0000-0000"}`

	const n = 12
	statuses := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/api/reservations", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()
			s.handler.ServeHTTP(rr, req)
			statuses <- rr.Code
		}()
	}
	wg.Wait()
	close(statuses)

	counts := map[int]int{}
	for code := range statuses {
		counts[code]++
	}
	if counts[http.StatusCreated] != 1 || counts[http.StatusConflict] != n-1 {
		t.Fatalf("statuses = %v, want one 201 and %d 409", counts, n-1)
	}
}

func TestMemoryStoreConcurrentCreate(t *testing.T) {
	store := NewMemoryStore(fixtureHotels(), nil)
	svc := services.NewReservationService(store, time.UTC, nil)
	req := services.CreateReservationRequest{
		RoomTypeID:   1,
		CheckInDate:  "2099-03-01",
		CheckOutDate: "2099-03-04",
		GuestName:    "Lee",
		GuestPhone:   "010-1234-5678",
	}

	const n = 16
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
	overlapping, err := store.CountOverlapping(context.Background(), 1, "2099-03-01", "2099-03-04")
	if err != nil || overlapping != 1 {
		t.Fatalf("overlapping = %d (%v), want 1", overlapping, err)
	}
}
