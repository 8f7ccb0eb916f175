package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/soaringjerry/fairway/internal/middleware"
	"github.com/soaringjerry/fairway/internal/services"
	"github.com/soaringjerry/fairway/internal/utils"
)

func (rt *Router) handleListHotels(w http.ResponseWriter, r *http.Request) {
	hotels, err := rt.reservations.ListHotels(r.Context())
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hotels)
}

func (rt *Router) handleGetHotel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		id = 0
	}
	h, err := rt.reservations.GetHotel(r.Context(), id)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h)
}

func (rt *Router) handleAvailability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	roomTypeID, _ := strconv.ParseInt(q.Get("roomTypeId"), 10, 64)
	quote, err := rt.reservations.Quote(r.Context(), roomTypeID, q.Get("checkInDate"), q.Get("checkOutDate"))
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

type createdReservation struct {
	ID              int64  `json:"id"`
	ReservationCode string `json:"reservationCode"`
	HotelName       string `json:"hotelName"`
	RoomTypeName    string `json:"roomTypeName"`
	CheckInDate     string `json:"checkInDate"`
	CheckOutDate    string `json:"checkOutDate"`
	TotalNights     int    `json:"totalNights"`
	TotalAmount     int64  `json:"totalAmount"`
	GuestName       string `json:"guestName"`
	GuestPhone      string `json:"guestPhone"`
	Adults          int    `json:"adults"`
	Children        int    `json:"children"`
	Status          int    `json:"status"`
	PaymentStatus   int    `json:"paymentStatus"`
}

func (rt *Router) handleCreateReservation(w http.ResponseWriter, r *http.Request) {
	var req services.CreateReservationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rt.writeError(w, r, err)
		return
	}
	d, err := rt.reservations.Create(r.Context(), req)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"reservation": createdReservation{
			ID:              d.ID,
			ReservationCode: d.ReservationCode,
			HotelName:       d.Hotel.Name,
			RoomTypeName:    d.RoomType.Name,
			CheckInDate:     d.CheckInDate,
			CheckOutDate:    d.CheckOutDate,
			TotalNights:     d.TotalNights,
			TotalAmount:     d.TotalAmount,
			GuestName:       d.GuestName,
			GuestPhone:      d.GuestPhone,
			Adults:          d.Adults,
			Children:        d.Children,
			Status:          d.Status,
			PaymentStatus:   d.PaymentStatus,
		},
	})
}

type hotelBrief struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	CheckInTime  string `json:"checkInTime"`
	CheckOutTime string `json:"checkOutTime"`
}

type roomTypeBrief struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	MaxOccupancy int    `json:"maxOccupancy"`
	BedType      string `json:"bedType"`
}

type roomBrief struct {
	ID         int64  `json:"id"`
	RoomNumber string `json:"roomNumber"`
	Floor      *int   `json:"floor"`
}

type guestInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type stayDates struct {
	CheckInDate  string `json:"checkInDate"`
	CheckOutDate string `json:"checkOutDate"`
	TotalNights  int    `json:"totalNights"`
}

type occupancy struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Total    int `json:"total"`
}

type pricing struct {
	TotalAmount   int64 `json:"totalAmount"`
	PricePerNight int64 `json:"pricePerNight"`
}

type statusView struct {
	Reservation     int    `json:"reservation"`
	ReservationText string `json:"reservationText"`
	Payment         int    `json:"payment"`
	PaymentText     string `json:"paymentText"`
}

type reservationView struct {
	ID              int64         `json:"id"`
	ReservationCode string        `json:"reservationCode"`
	Hotel           hotelBrief    `json:"hotel"`
	RoomType        roomTypeBrief `json:"roomType"`
	Room            *roomBrief    `json:"room"`
	GuestInfo       guestInfo     `json:"guestInfo"`
	Dates           stayDates     `json:"dates"`
	Occupancy       occupancy     `json:"occupancy"`
	Pricing         pricing       `json:"pricing"`
	Status          statusView    `json:"status"`
	SpecialRequests string        `json:"specialRequests"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

func toReservationView(d *services.ReservationDetail, locale string) reservationView {
	v := reservationView{
		ID:              d.ID,
		ReservationCode: d.ReservationCode,
		Hotel: hotelBrief{
			ID:           d.Hotel.ID,
			Name:         d.Hotel.Name,
			Address:      d.Hotel.Address,
			Phone:        d.Hotel.Phone,
			CheckInTime:  d.Hotel.CheckInTime,
			CheckOutTime: d.Hotel.CheckOutTime,
		},
		RoomType: roomTypeBrief{
			ID:           d.RoomType.ID,
			Name:         d.RoomType.Name,
			Description:  d.RoomType.Description,
			MaxOccupancy: d.RoomType.MaxOccupancy,
			BedType:      d.RoomType.BedType,
		},
		GuestInfo: guestInfo{Name: d.GuestName, Phone: d.GuestPhone, Email: d.GuestEmail},
		Dates:     stayDates{CheckInDate: d.CheckInDate, CheckOutDate: d.CheckOutDate, TotalNights: d.TotalNights},
		Occupancy: occupancy{Adults: d.Adults, Children: d.Children, Total: d.Adults + d.Children},
		Pricing: pricing{
			TotalAmount:   d.TotalAmount,
			PricePerNight: services.PricePerNight(d.TotalAmount, d.TotalNights),
		},
		Status: statusView{
			Reservation:     d.Status,
			ReservationText: utils.T(locale, services.ReservationStatusKey(d.Status)),
			Payment:         d.PaymentStatus,
			PaymentText:     utils.T(locale, services.PaymentStatusKey(d.PaymentStatus)),
		},
		SpecialRequests: d.SpecialRequests,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
	if d.Room != nil {
		v.Room = &roomBrief{ID: d.Room.ID, RoomNumber: d.Room.RoomNumber, Floor: d.Room.Floor}
	}
	return v
}

func (rt *Router) handleGetReservation(w http.ResponseWriter, r *http.Request) {
	d, err := rt.reservations.Lookup(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationView(d, middleware.LocaleFromContext(r.Context())))
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (rt *Router) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rt.writeError(w, r, err)
		return
	}
	res, err := rt.admin.Login(req.Username, req.Password)
	if err != nil {
		rt.log.Warn("admin_login_failed", "username", req.Username)
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (rt *Router) handleTransition(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	code := strings.ToUpper(strings.TrimSpace(vars["code"]))
	d, err := rt.reservations.Transition(r.Context(), code, services.Action(vars["action"]))
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	actor, _ := middleware.SubjectFromContext(r.Context())
	rt.log.Info("admin_action", "actor", actor, "action", vars["action"], "code", d.ReservationCode)
	writeJSON(w, http.StatusOK, toReservationView(d, middleware.LocaleFromContext(r.Context())))
}

type paymentRequest struct {
	PaymentStatus *int `json:"paymentStatus"`
}

func (rt *Router) handleSetPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rt.writeError(w, r, err)
		return
	}
	if req.PaymentStatus == nil {
		rt.writeError(w, r, services.NewInvalidError("err.missing_fields", "paymentStatus is required"))
		return
	}
	code := strings.ToUpper(strings.TrimSpace(mux.Vars(r)["code"]))
	d, err := rt.reservations.SetPaymentStatus(r.Context(), code, *req.PaymentStatus)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationView(d, middleware.LocaleFromContext(r.Context())))
}

type pricesRequest struct {
	Prices []services.PriceInput `json:"prices"`
}

func (rt *Router) handleUpsertPrices(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		rt.writeError(w, r, services.ErrRoomTypeMissing)
		return
	}
	var req pricesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rt.writeError(w, r, err)
		return
	}
	prices, err := rt.reservations.UpsertPrices(r.Context(), id, req.Prices)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "prices": prices})
}
