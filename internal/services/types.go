package services

import "time"

const (
	HotelInactive = 0
	HotelActive   = 1

	RoomUnavailable = 0
	RoomAvailable   = 1
	RoomMaintenance = 2

	ReservationCancelled  = 0
	ReservationConfirmed  = 1
	ReservationCheckedIn  = 2
	ReservationCheckedOut = 3

	PaymentUnpaid   = 0
	PaymentPaid     = 1
	PaymentRefunded = 2
)

// ActiveReservationStatuses are the statuses that hold capacity.
var ActiveReservationStatuses = []int{ReservationConfirmed, ReservationCheckedIn}

type Hotel struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	NameEn       string     `json:"nameEn,omitempty"`
	Description  string     `json:"description,omitempty"`
	Address      string     `json:"address"`
	Phone        string     `json:"phone,omitempty"`
	Email        string     `json:"email,omitempty"`
	CheckInTime  string     `json:"checkInTime"`
	CheckOutTime string     `json:"checkOutTime"`
	Images       []string   `json:"images"`
	Amenities    []string   `json:"amenities"`
	LocationLat  *float64   `json:"locationLat,omitempty"`
	LocationLng  *float64   `json:"locationLng,omitempty"`
	Status       int        `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	RoomTypes    []RoomType `json:"roomTypes"`
}

type RoomType struct {
	ID             int64       `json:"id"`
	HotelID        int64       `json:"hotelId"`
	Name           string      `json:"name"`
	NameEn         string      `json:"nameEn,omitempty"`
	Description    string      `json:"description,omitempty"`
	MaxOccupancy   int         `json:"maxOccupancy"`
	BedType        string      `json:"bedType,omitempty"`
	RoomSize       *float64    `json:"roomSize,omitempty"`
	Amenities      []string    `json:"amenities"`
	Images         []string    `json:"images"`
	BasePrice      int64       `json:"basePrice"`
	Status         int         `json:"status"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
	Rooms          []Room      `json:"rooms,omitempty"`
	RoomPrices     []RoomPrice `json:"roomPrices,omitempty"`
	AvailableRooms *int        `json:"availableRooms,omitempty"`

	// HotelName is filled by single room type lookups.
	HotelName string `json:"-"`
}

// RoomTypeSummary is the listing projection of a room type.
type RoomTypeSummary struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	BasePrice    int64    `json:"basePrice"`
	MaxOccupancy int      `json:"maxOccupancy"`
	Images       []string `json:"images"`
}

type HotelSummary struct {
	Hotel
	RoomTypes []RoomTypeSummary `json:"roomTypes"`
}

type Room struct {
	ID         int64     `json:"id"`
	HotelID    int64     `json:"hotelId"`
	RoomTypeID int64     `json:"roomTypeId"`
	RoomNumber string    `json:"roomNumber"`
	Floor      *int      `json:"floor,omitempty"`
	Status     int       `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type RoomPrice struct {
	ID         int64     `json:"id"`
	RoomTypeID int64     `json:"roomTypeId"`
	PriceDate  string    `json:"priceDate"`
	Price      int64     `json:"price"`
	IsWeekend  bool      `json:"isWeekend"`
	IsHoliday  bool      `json:"isHoliday"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Reservation is a booking row. TotalNights and TotalAmount are a snapshot taken at creation.
type Reservation struct {
	ID              int64     `json:"id"`
	ReservationCode string    `json:"reservationCode"`
	HotelID         int64     `json:"hotelId"`
	RoomTypeID      int64     `json:"roomTypeId"`
	RoomID          *int64    `json:"roomId,omitempty"`
	GuestName       string    `json:"guestName"`
	GuestPhone      string    `json:"guestPhone"`
	GuestEmail      string    `json:"guestEmail,omitempty"`
	CheckInDate     string    `json:"checkInDate"`
	CheckOutDate    string    `json:"checkOutDate"`
	Adults          int       `json:"adults"`
	Children        int       `json:"children"`
	TotalNights     int       `json:"totalNights"`
	TotalAmount     int64     `json:"totalAmount"`
	PaymentStatus   int       `json:"paymentStatus"`
	SpecialRequests string    `json:"specialRequests,omitempty"`
	Status          int       `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ReservationDetail joins a reservation with what it references.
type ReservationDetail struct {
	Reservation
	Hotel    Hotel
	RoomType RoomType
	Room     *Room
}
