package db

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/soaringjerry/fairway/internal/services"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

// SampleHotels returns the demo catalogue used by Seed and by the in-memory store.
func SampleHotels() []services.Hotel {
	return []services.Hotel{
		{
			ID:           1,
			Name:         "페어웨이 리조트 제주",
			NameEn:       "Fairway Resort Jeju",
			Description:  "골프장과 바로 연결된 오션뷰 리조트",
			Address:      "제주특별자치도 서귀포시 중문관광로 72",
			Phone:        "064-123-4567",
			Email:        "stay@fairway-jeju.example",
			CheckInTime:  "15:00",
			CheckOutTime: "11:00",
			Images:       []string{"/images/jeju-main.jpg"},
			Amenities:    []string{"wifi", "parking", "golf", "spa"},
			LocationLat:  floatPtr(33.2496),
			LocationLng:  floatPtr(126.4122),
			Status:       services.HotelActive,
			RoomTypes: []services.RoomType{
				{
					ID:           1,
					HotelID:      1,
					Name:         "디럭스 더블",
					NameEn:       "Deluxe Double",
					MaxOccupancy: 2,
					BedType:      "double",
					RoomSize:     floatPtr(32),
					Amenities:    []string{"tv", "minibar"},
					Images:       []string{"/images/jeju-deluxe.jpg"},
					BasePrice:    150000,
					Status:       services.HotelActive,
					Rooms: []services.Room{
						{ID: 1, HotelID: 1, RoomTypeID: 1, RoomNumber: "301", Floor: intPtr(3), Status: services.RoomAvailable},
						{ID: 2, HotelID: 1, RoomTypeID: 1, RoomNumber: "302", Floor: intPtr(3), Status: services.RoomAvailable},
						{ID: 3, HotelID: 1, RoomTypeID: 1, RoomNumber: "303", Floor: intPtr(3), Status: services.RoomMaintenance},
					},
				},
				{
					ID:           2,
					HotelID:      1,
					Name:         "패밀리 스위트",
					NameEn:       "Family Suite",
					MaxOccupancy: 4,
					BedType:      "twin",
					RoomSize:     floatPtr(58),
					Amenities:    []string{"tv", "kitchen", "bathtub"},
					Images:       []string{"/images/jeju-suite.jpg"},
					BasePrice:    280000,
					Status:       services.HotelActive,
					Rooms: []services.Room{
						{ID: 4, HotelID: 1, RoomTypeID: 2, RoomNumber: "501", Floor: intPtr(5), Status: services.RoomAvailable},
					},
				},
			},
		},
		{
			ID:           2,
			Name:         "그린힐 골프텔 가평",
			NameEn:       "Greenhill Golftel Gapyeong",
			Address:      "경기도 가평군 설악면 미사리로 100",
			Phone:        "031-765-4321",
			CheckInTime:  "14:00",
			CheckOutTime: "11:00",
			Images:       []string{"/images/gapyeong-main.jpg"},
			Amenities:    []string{"wifi", "parking", "golf"},
			Status:       services.HotelActive,
			RoomTypes: []services.RoomType{
				{
					ID:           3,
					HotelID:      2,
					Name:         "스탠다드 트윈",
					NameEn:       "Standard Twin",
					MaxOccupancy: 2,
					BedType:      "twin",
					Amenities:    []string{"tv"},
					Images:       []string{"/images/gapyeong-twin.jpg"},
					BasePrice:    100000,
					Status:       services.HotelActive,
					Rooms: []services.Room{
						{ID: 5, HotelID: 2, RoomTypeID: 3, RoomNumber: "101", Floor: intPtr(1), Status: services.RoomAvailable},
						{ID: 6, HotelID: 2, RoomTypeID: 3, RoomNumber: "102", Floor: intPtr(1), Status: services.RoomAvailable},
					},
				},
			},
		},
	}
}

// SamplePrices returns weekend surcharges for the next two weeks starting at today.
func SamplePrices(today time.Time) []services.RoomPrice {
	var out []services.RoomPrice
	for _, h := range SampleHotels() {
		for _, rt := range h.RoomTypes {
			for i := 0; i < 14; i++ {
				d := today.AddDate(0, 0, i)
				if wd := d.Weekday(); wd != time.Friday && wd != time.Saturday {
					continue
				}
				out = append(out, services.RoomPrice{
					RoomTypeID: rt.ID,
					PriceDate:  d.Format(services.DateLayout),
					Price:      rt.BasePrice + rt.BasePrice/5,
					IsWeekend:  d.Weekday() == time.Saturday,
				})
			}
		}
	}
	return out
}

// Seed inserts the sample catalogue when the hotels table is empty. It reports whether rows were
// written.
func Seed(ctx context.Context, gdb *gorm.DB, today time.Time) (bool, error) {
	var n int64
	if err := gdb.WithContext(ctx).Model(&hotelModel{}).Count(&n).Error; err != nil {
		return false, fmt.Errorf("count hotels: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	now := time.Now().UTC()
	err := gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, h := range SampleHotels() {
			hm := hotelModel{
				Name:         h.Name,
				NameEn:       h.NameEn,
				Description:  h.Description,
				Address:      h.Address,
				Phone:        h.Phone,
				Email:        h.Email,
				CheckInTime:  h.CheckInTime,
				CheckOutTime: h.CheckOutTime,
				Images:       toJSONList(h.Images),
				Amenities:    toJSONList(h.Amenities),
				LocationLat:  h.LocationLat,
				LocationLng:  h.LocationLng,
				Status:       h.Status,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := tx.Create(&hm).Error; err != nil {
				return err
			}
			for _, rt := range h.RoomTypes {
				rtm := roomTypeModel{
					HotelID:      hm.ID,
					Name:         rt.Name,
					NameEn:       rt.NameEn,
					Description:  rt.Description,
					MaxOccupancy: rt.MaxOccupancy,
					BedType:      rt.BedType,
					RoomSize:     rt.RoomSize,
					Amenities:    toJSONList(rt.Amenities),
					Images:       toJSONList(rt.Images),
					BasePrice:    rt.BasePrice,
					Status:       rt.Status,
					CreatedAt:    now,
					UpdatedAt:    now,
				}
				if err := tx.Create(&rtm).Error; err != nil {
					return err
				}
				for _, room := range rt.Rooms {
					rm := roomModel{
						HotelID:    hm.ID,
						RoomTypeID: rtm.ID,
						RoomNumber: room.RoomNumber,
						Floor:      room.Floor,
						Status:     room.Status,
						CreatedAt:  now,
						UpdatedAt:  now,
					}
					if err := tx.Create(&rm).Error; err != nil {
						return err
					}
				}
				for _, p := range SamplePrices(today) {
					if p.RoomTypeID != rt.ID {
						continue
					}
					pm := roomPriceModel{
						RoomTypeID: rtm.ID,
						PriceDate:  p.PriceDate,
						Price:      p.Price,
						IsWeekend:  p.IsWeekend,
						IsHoliday:  p.IsHoliday,
						CreatedAt:  now,
					}
					if err := tx.Create(&pm).Error; err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("seed: %w", err)
	}
	return true, nil
}
