package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/soaringjerry/fairway/internal/logger"
)

// ReservationStore abstracts persistence for hotels and reservations. Lookups return nil without
// an error when the row does not exist. Dates are YYYY-MM-DD strings.
type ReservationStore interface {
	ListHotels(ctx context.Context) ([]HotelSummary, error)
	// GetHotel returns an active hotel with its active room types, their available rooms and up to
	// priceLimit price rows dated on or after priceFrom.
	GetHotel(ctx context.Context, id int64, priceFrom string, priceLimit int) (*Hotel, error)
	// GetRoomType returns an active room type with HotelName set.
	GetRoomType(ctx context.Context, id int64) (*RoomType, error)
	CountOperableRooms(ctx context.Context, roomTypeID int64) (int, error)
	// CountOverlapping counts active reservations with checkIn < to and checkOut > from.
	CountOverlapping(ctx context.Context, roomTypeID int64, from, to string) (int, error)
	// NightlyPrices returns price rows keyed by date for from <= date < to.
	NightlyPrices(ctx context.Context, roomTypeID int64, from, to string) (map[string]int64, error)
	ReservationCodeExists(ctx context.Context, code string) (bool, error)
	// InsertReservation assigns r.ID. It returns ErrCodeTaken when the code is already used.
	InsertReservation(ctx context.Context, r *Reservation) error
	GetReservationByCode(ctx context.Context, code string) (*ReservationDetail, error)
	UpdateReservationStatus(ctx context.Context, code string, status, payment int, at time.Time) error
	UpsertRoomPrices(ctx context.Context, prices []RoomPrice) error
	// Atomic runs fn so that no other Atomic call interleaves with it.
	Atomic(ctx context.Context, fn func(tx ReservationStore) error) error
}

const upcomingPriceRows = 30

type CreateReservationRequest struct {
	RoomTypeID      int64  `json:"roomTypeId" validate:"required"`
	CheckInDate     string `json:"checkInDate" validate:"required"`
	CheckOutDate    string `json:"checkOutDate" validate:"required"`
	GuestName       string `json:"guestName" validate:"required"`
	GuestPhone      string `json:"guestPhone" validate:"required"`
	GuestEmail      string `json:"guestEmail,omitempty" validate:"omitempty,email"`
	Adults          *int   `json:"adults,omitempty" validate:"omitempty,gte=0"`
	Children        *int   `json:"children,omitempty" validate:"omitempty,gte=0"`
	SpecialRequests string `json:"specialRequests,omitempty" validate:"max=2000"`
}

type QuoteRoomType struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	HotelName string `json:"hotelName"`
}

type Quote struct {
	Available     bool          `json:"available"`
	RoomType      QuoteRoomType `json:"roomType"`
	CheckInDate   string        `json:"checkInDate"`
	CheckOutDate  string        `json:"checkOutDate"`
	Nights        int           `json:"nights"`
	TotalPrice    int64         `json:"totalPrice"`
	PricePerNight int64         `json:"pricePerNight"`
}

type PriceInput struct {
	Date      string `json:"date" validate:"required"`
	Price     int64  `json:"price" validate:"gte=0"`
	IsHoliday bool   `json:"isHoliday,omitempty"`
}

type ReservationService struct {
	store   ReservationStore
	now     func() time.Time
	loc     *time.Location
	codeGen func() (string, error)
	tracer  trace.Tracer
	log     *logger.Logger
}

func NewReservationService(store ReservationStore, loc *time.Location, log *logger.Logger) *ReservationService {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ReservationService{
		store:   store,
		now:     time.Now,
		loc:     loc,
		codeGen: GenerateReservationCode,
		tracer:  otel.Tracer("github.com/soaringjerry/fairway/internal/services"),
		log:     log.With("service", "ReservationService"),
	}
}

func (s *ReservationService) today() time.Time {
	return CivilToday(s.now(), s.loc)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
	}
	span.End()
}

func (s *ReservationService) ListHotels(ctx context.Context) ([]HotelSummary, error) {
	return s.store.ListHotels(ctx)
}

// GetHotel returns an active hotel with upcoming prices and the available room count per type.
func (s *ReservationService) GetHotel(ctx context.Context, id int64) (*Hotel, error) {
	if id <= 0 {
		return nil, NewInvalidError("err.invalid_hotel_id", "invalid hotel id")
	}
	h, err := s.store.GetHotel(ctx, id, s.today().Format(DateLayout), upcomingPriceRows)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, NewNotFoundError("err.hotel_not_found", "hotel not found")
	}
	for i := range h.RoomTypes {
		n := 0
		for _, room := range h.RoomTypes[i].Rooms {
			if room.Status == RoomAvailable {
				n++
			}
		}
		h.RoomTypes[i].AvailableRooms = &n
	}
	return h, nil
}

func (s *ReservationService) available(ctx context.Context, st ReservationStore, roomTypeID int64, stay Stay) (bool, error) {
	overlapping, err := st.CountOverlapping(ctx, roomTypeID, stay.CheckInDate(), stay.CheckOutDate())
	if err != nil {
		return false, err
	}
	operable, err := st.CountOperableRooms(ctx, roomTypeID)
	if err != nil {
		return false, err
	}
	return IsAvailable(overlapping, operable), nil
}

func (s *ReservationService) totalPrice(ctx context.Context, st ReservationStore, rt *RoomType, stay Stay) (int64, error) {
	nightly, err := st.NightlyPrices(ctx, rt.ID, stay.CheckInDate(), stay.CheckOutDate())
	if err != nil {
		return 0, err
	}
	return TotalPrice(stay.Dates(), nightly, rt.BasePrice), nil
}

func (s *ReservationService) roomType(ctx context.Context, id int64) (*RoomType, error) {
	rt, err := s.store.GetRoomType(ctx, id)
	if err != nil {
		return nil, err
	}
	if rt == nil {
		return nil, ErrRoomTypeMissing
	}
	return rt, nil
}

// IsAvailable checks capacity for a room type over [checkIn, checkOut).
func (s *ReservationService) IsAvailable(ctx context.Context, roomTypeID int64, checkIn, checkOut string) (bool, error) {
	stay, err := ParseStay(checkIn, checkOut, s.today())
	if err != nil {
		return false, err
	}
	return s.available(ctx, s.store, roomTypeID, stay)
}

// Quote reports availability and price for a stay. The capacity count and the price lookup run
// concurrently.
func (s *ReservationService) Quote(ctx context.Context, roomTypeID int64, checkIn, checkOut string) (_ *Quote, err error) {
	ctx, span := s.tracer.Start(ctx, "reservations.Quote", trace.WithAttributes(attribute.Int64("room_type_id", roomTypeID)))
	defer func() { endSpan(span, err) }()

	if roomTypeID <= 0 || strings.TrimSpace(checkIn) == "" || strings.TrimSpace(checkOut) == "" {
		return nil, NewInvalidError("err.missing_params", "missing required parameters: roomTypeId, checkInDate, checkOutDate")
	}
	stay, err := ParseStay(checkIn, checkOut, s.today())
	if err != nil {
		return nil, err
	}
	rt, err := s.roomType(ctx, roomTypeID)
	if err != nil {
		return nil, err
	}

	var (
		ok    bool
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ok, err = s.available(gctx, s.store, rt.ID, stay)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.totalPrice(gctx, s.store, rt, stay)
		return err
	})
	if err = g.Wait(); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Bool("available", ok), attribute.Int64("total_price", total))
	return &Quote{
		Available:     ok,
		RoomType:      QuoteRoomType{ID: rt.ID, Name: rt.Name, HotelName: rt.HotelName},
		CheckInDate:   checkIn,
		CheckOutDate:  checkOut,
		Nights:        stay.Nights(),
		TotalPrice:    total,
		PricePerNight: PricePerNight(total, stay.Nights()),
	}, nil
}

// Create validates and books a stay. The capacity check, price snapshot and insert run in one
// store transaction; a code collision on insert consumes an attempt.
func (s *ReservationService) Create(ctx context.Context, req CreateReservationRequest) (_ *ReservationDetail, err error) {
	ctx, span := s.tracer.Start(ctx, "reservations.Create", trace.WithAttributes(attribute.Int64("room_type_id", req.RoomTypeID)))
	defer func() { endSpan(span, err) }()

	req.GuestName = strings.TrimSpace(req.GuestName)
	req.GuestPhone = strings.TrimSpace(req.GuestPhone)
	if err = checkStruct(req); err != nil {
		return nil, err
	}
	adults, children := 1, 0
	if req.Adults != nil {
		adults = *req.Adults
	}
	if req.Children != nil {
		children = *req.Children
	}
	stay, err := ParseStay(req.CheckInDate, req.CheckOutDate, s.today())
	if err != nil {
		return nil, err
	}
	rt, err := s.roomType(ctx, req.RoomTypeID)
	if err != nil {
		return nil, err
	}
	if adults+children > rt.MaxOccupancy {
		return nil, NewInvalidError("err.over_occupancy", fmt.Sprintf("maximum occupancy (%d) exceeded", rt.MaxOccupancy))
	}

	now := s.now().UTC()
	r := &Reservation{
		HotelID:         rt.HotelID,
		RoomTypeID:      rt.ID,
		GuestName:       req.GuestName,
		GuestPhone:      req.GuestPhone,
		GuestEmail:      strings.TrimSpace(req.GuestEmail),
		CheckInDate:     stay.CheckInDate(),
		CheckOutDate:    stay.CheckOutDate(),
		Adults:          adults,
		Children:        children,
		TotalNights:     stay.Nights(),
		PaymentStatus:   PaymentUnpaid,
		SpecialRequests: req.SpecialRequests,
		Status:          ReservationConfirmed,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	err = s.store.Atomic(ctx, func(tx ReservationStore) error {
		ok, err := s.available(ctx, tx, rt.ID, stay)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNoAvailability
		}
		if r.TotalAmount, err = s.totalPrice(ctx, tx, rt, stay); err != nil {
			return err
		}
		return s.insertWithCode(ctx, tx, r)
	})
	if err != nil {
		if errors.Is(err, ErrCodeGenerationExhausted) {
			s.log.Error("reservation_code_exhausted", "room_type_id", rt.ID)
		}
		return nil, err
	}
	s.log.Info("reservation_created", "code", r.ReservationCode, "room_type_id", rt.ID, "nights", r.TotalNights, "guest_name", r.GuestName)
	return &ReservationDetail{
		Reservation: *r,
		Hotel:       Hotel{ID: rt.HotelID, Name: rt.HotelName},
		RoomType:    *rt,
	}, nil
}

func (s *ReservationService) insertWithCode(ctx context.Context, tx ReservationStore, r *Reservation) error {
	for attempt := 0; attempt < MaxCodeAttempts; attempt++ {
		code, err := s.codeGen()
		if err != nil {
			return err
		}
		exists, err := tx.ReservationCodeExists(ctx, code)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		r.ReservationCode = code
		err = tx.InsertReservation(ctx, r)
		if errors.Is(err, ErrCodeTaken) {
			continue
		}
		return err
	}
	r.ReservationCode = ""
	return ErrCodeGenerationExhausted
}

var errReservationNotFound = NewNotFoundError("err.reservation_not_found", "reservation not found")

// normalizeCode upper-cases a caller-supplied code. Codes that could never have been issued are
// reported missing without a store round trip.
func normalizeCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "", NewInvalidError("err.code_required", "reservation code is required")
	}
	if !IsReservationCode(code) {
		return "", errReservationNotFound
	}
	return code, nil
}

// Lookup finds a reservation by its code.
func (s *ReservationService) Lookup(ctx context.Context, code string) (*ReservationDetail, error) {
	code, err := normalizeCode(code)
	if err != nil {
		return nil, err
	}
	d, err := s.store.GetReservationByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, errReservationNotFound
	}
	return d, nil
}

type Action string

const (
	ActionCancel   Action = "cancel"
	ActionCheckIn  Action = "check-in"
	ActionCheckOut Action = "check-out"
)

// NextStatus applies an admin action to a reservation's status pair. Cancelling refunds a paid
// reservation.
func NextStatus(action Action, status, payment int) (int, int, error) {
	switch {
	case action == ActionCancel && status == ReservationConfirmed:
		if payment == PaymentPaid {
			payment = PaymentRefunded
		}
		return ReservationCancelled, payment, nil
	case action == ActionCheckIn && status == ReservationConfirmed:
		return ReservationCheckedIn, payment, nil
	case action == ActionCheckOut && status == ReservationCheckedIn:
		return ReservationCheckedOut, payment, nil
	case action != ActionCancel && action != ActionCheckIn && action != ActionCheckOut:
		return status, payment, NewInvalidError("err.invalid_body", "unknown action")
	}
	return status, payment, NewConflictError("err.invalid_transition", "invalid status transition")
}

// Transition moves a reservation through cancel, check-in or check-out.
func (s *ReservationService) Transition(ctx context.Context, code string, action Action) (_ *ReservationDetail, err error) {
	ctx, span := s.tracer.Start(ctx, "reservations.Transition", trace.WithAttributes(attribute.String("action", string(action))))
	defer func() { endSpan(span, err) }()

	if code, err = normalizeCode(code); err != nil {
		return nil, err
	}
	var out *ReservationDetail
	err = s.store.Atomic(ctx, func(tx ReservationStore) error {
		d, err := tx.GetReservationByCode(ctx, code)
		if err != nil {
			return err
		}
		if d == nil {
			return errReservationNotFound
		}
		status, payment, err := NextStatus(action, d.Status, d.PaymentStatus)
		if err != nil {
			return err
		}
		now := s.now().UTC()
		if err := tx.UpdateReservationStatus(ctx, d.ReservationCode, status, payment, now); err != nil {
			return err
		}
		d.Status, d.PaymentStatus, d.UpdatedAt = status, payment, now
		out = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("reservation_transition", "code", out.ReservationCode, "action", string(action), "status", out.Status)
	return out, nil
}

// SetPaymentStatus records a payment state change without touching the reservation status.
func (s *ReservationService) SetPaymentStatus(ctx context.Context, code string, payment int) (*ReservationDetail, error) {
	if payment < PaymentUnpaid || payment > PaymentRefunded {
		return nil, NewInvalidError("err.invalid_body", "unknown payment status")
	}
	code, err := normalizeCode(code)
	if err != nil {
		return nil, err
	}
	var out *ReservationDetail
	err = s.store.Atomic(ctx, func(tx ReservationStore) error {
		d, err := tx.GetReservationByCode(ctx, code)
		if err != nil {
			return err
		}
		if d == nil {
			return errReservationNotFound
		}
		now := s.now().UTC()
		if err := tx.UpdateReservationStatus(ctx, d.ReservationCode, d.Status, payment, now); err != nil {
			return err
		}
		d.PaymentStatus, d.UpdatedAt = payment, now
		out = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpsertPrices sets nightly prices for a room type. Existing reservations keep their totals.
func (s *ReservationService) UpsertPrices(ctx context.Context, roomTypeID int64, inputs []PriceInput) ([]RoomPrice, error) {
	if len(inputs) == 0 {
		return nil, NewInvalidError("err.missing_fields", "no prices given")
	}
	if _, err := s.roomType(ctx, roomTypeID); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	prices := make([]RoomPrice, 0, len(inputs))
	for _, in := range inputs {
		if err := checkStruct(in); err != nil {
			return nil, err
		}
		d, err := parseDate(in.Date)
		if err != nil {
			return nil, NewInvalidError("err.bad_date", "dates must be YYYY-MM-DD")
		}
		wd := d.Weekday()
		prices = append(prices, RoomPrice{
			RoomTypeID: roomTypeID,
			PriceDate:  d.Format(DateLayout),
			Price:      in.Price,
			IsWeekend:  wd == time.Saturday || wd == time.Sunday,
			IsHoliday:  in.IsHoliday,
			CreatedAt:  now,
		})
	}
	if err := s.store.UpsertRoomPrices(ctx, prices); err != nil {
		return nil, err
	}
	return prices, nil
}

// ReservationStatusKey names the message table entry for a reservation status.
func ReservationStatusKey(status int) string {
	if status < ReservationCancelled || status > ReservationCheckedOut {
		return "status.unknown"
	}
	return fmt.Sprintf("reservation.status.%d", status)
}

func PaymentStatusKey(status int) string {
	if status < PaymentUnpaid || status > PaymentRefunded {
		return "status.unknown"
	}
	return fmt.Sprintf("payment.status.%d", status)
}
