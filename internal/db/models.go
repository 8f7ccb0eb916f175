package db

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/soaringjerry/fairway/internal/services"
)

type hotelModel struct {
	ID           int64  `gorm:"primaryKey"`
	Name         string `gorm:"not null"`
	NameEn       string
	Description  string
	Address      string `gorm:"not null"`
	Phone        string
	Email        string
	CheckInTime  string
	CheckOutTime string
	Images       datatypes.JSON
	Amenities    datatypes.JSON
	LocationLat  *float64
	LocationLng  *float64
	Status       int
	CreatedAt    time.Time
	UpdatedAt    time.Time
	RoomTypes    []roomTypeModel `gorm:"foreignKey:HotelID"`
}

func (hotelModel) TableName() string { return "hotels" }

type roomTypeModel struct {
	ID           int64 `gorm:"primaryKey"`
	HotelID      int64 `gorm:"index"`
	Name         string
	NameEn       string
	Description  string
	MaxOccupancy int
	BedType      string
	RoomSize     *float64
	Amenities    datatypes.JSON
	Images       datatypes.JSON
	BasePrice    int64
	Status       int
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Hotel        *hotelModel      `gorm:"foreignKey:HotelID"`
	Rooms        []roomModel      `gorm:"foreignKey:RoomTypeID"`
	RoomPrices   []roomPriceModel `gorm:"foreignKey:RoomTypeID"`
}

func (roomTypeModel) TableName() string { return "room_types" }

type roomModel struct {
	ID         int64 `gorm:"primaryKey"`
	HotelID    int64
	RoomTypeID int64
	RoomNumber string
	Floor      *int
	Status     int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (roomModel) TableName() string { return "rooms" }

type roomPriceModel struct {
	ID         int64 `gorm:"primaryKey"`
	RoomTypeID int64
	PriceDate  string
	Price      int64
	IsWeekend  bool
	IsHoliday  bool
	CreatedAt  time.Time
}

func (roomPriceModel) TableName() string { return "room_prices" }

type reservationModel struct {
	ID              int64  `gorm:"primaryKey"`
	ReservationCode string `gorm:"uniqueIndex"`
	HotelID         int64
	RoomTypeID      int64
	RoomID          *int64
	GuestName       string
	GuestPhone      string
	GuestEmail      string
	CheckInDate     string
	CheckOutDate    string
	Adults          int
	Children        int
	TotalNights     int
	TotalAmount     int64
	PaymentStatus   int
	SpecialRequests string
	Status          int
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Hotel           *hotelModel    `gorm:"foreignKey:HotelID"`
	RoomType        *roomTypeModel `gorm:"foreignKey:RoomTypeID"`
	Room            *roomModel     `gorm:"foreignKey:RoomID"`
}

func (reservationModel) TableName() string { return "reservations" }

func jsonList(raw datatypes.JSON) []string {
	out := []string{}
	if len(raw) == 0 {
		return out
	}
	_ = json.Unmarshal(raw, &out)
	return out
}

func toJSONList(v []string) datatypes.JSON {
	if v == nil {
		v = []string{}
	}
	b, _ := json.Marshal(v)
	return datatypes.JSON(b)
}

func (m hotelModel) toService() services.Hotel {
	h := services.Hotel{
		ID:           m.ID,
		Name:         m.Name,
		NameEn:       m.NameEn,
		Description:  m.Description,
		Address:      m.Address,
		Phone:        m.Phone,
		Email:        m.Email,
		CheckInTime:  m.CheckInTime,
		CheckOutTime: m.CheckOutTime,
		Images:       jsonList(m.Images),
		Amenities:    jsonList(m.Amenities),
		LocationLat:  m.LocationLat,
		LocationLng:  m.LocationLng,
		Status:       m.Status,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		RoomTypes:    make([]services.RoomType, 0, len(m.RoomTypes)),
	}
	for _, rt := range m.RoomTypes {
		h.RoomTypes = append(h.RoomTypes, rt.toService())
	}
	return h
}

func (m roomTypeModel) toService() services.RoomType {
	rt := services.RoomType{
		ID:           m.ID,
		HotelID:      m.HotelID,
		Name:         m.Name,
		NameEn:       m.NameEn,
		Description:  m.Description,
		MaxOccupancy: m.MaxOccupancy,
		BedType:      m.BedType,
		RoomSize:     m.RoomSize,
		Amenities:    jsonList(m.Amenities),
		Images:       jsonList(m.Images),
		BasePrice:    m.BasePrice,
		Status:       m.Status,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.Hotel != nil {
		rt.HotelName = m.Hotel.Name
	}
	for _, r := range m.Rooms {
		rt.Rooms = append(rt.Rooms, r.toService())
	}
	for _, p := range m.RoomPrices {
		rt.RoomPrices = append(rt.RoomPrices, p.toService())
	}
	return rt
}

func (m roomModel) toService() services.Room {
	return services.Room{
		ID:         m.ID,
		HotelID:    m.HotelID,
		RoomTypeID: m.RoomTypeID,
		RoomNumber: m.RoomNumber,
		Floor:      m.Floor,
		Status:     m.Status,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func (m roomPriceModel) toService() services.RoomPrice {
	return services.RoomPrice{
		ID:         m.ID,
		RoomTypeID: m.RoomTypeID,
		PriceDate:  m.PriceDate,
		Price:      m.Price,
		IsWeekend:  m.IsWeekend,
		IsHoliday:  m.IsHoliday,
		CreatedAt:  m.CreatedAt,
	}
}

func (m reservationModel) toService() services.Reservation {
	return services.Reservation{
		ID:              m.ID,
		ReservationCode: m.ReservationCode,
		HotelID:         m.HotelID,
		RoomTypeID:      m.RoomTypeID,
		RoomID:          m.RoomID,
		GuestName:       m.GuestName,
		GuestPhone:      m.GuestPhone,
		GuestEmail:      m.GuestEmail,
		CheckInDate:     m.CheckInDate,
		CheckOutDate:    m.CheckOutDate,
		Adults:          m.Adults,
		Children:        m.Children,
		TotalNights:     m.TotalNights,
		TotalAmount:     m.TotalAmount,
		PaymentStatus:   m.PaymentStatus,
		SpecialRequests: m.SpecialRequests,
		Status:          m.Status,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func reservationFromService(r *services.Reservation) reservationModel {
	return reservationModel{
		ID:              r.ID,
		ReservationCode: r.ReservationCode,
		HotelID:         r.HotelID,
		RoomTypeID:      r.RoomTypeID,
		RoomID:          r.RoomID,
		GuestName:       r.GuestName,
		GuestPhone:      r.GuestPhone,
		GuestEmail:      r.GuestEmail,
		CheckInDate:     r.CheckInDate,
		CheckOutDate:    r.CheckOutDate,
		Adults:          r.Adults,
		Children:        r.Children,
		TotalNights:     r.TotalNights,
		TotalAmount:     r.TotalAmount,
		PaymentStatus:   r.PaymentStatus,
		SpecialRequests: r.SpecialRequests,
		Status:          r.Status,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}
