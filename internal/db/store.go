package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/soaringjerry/fairway/internal/services"
)

// maxSerializationRetries bounds how often a postgres transaction is replayed after a
// serialization failure.
const maxSerializationRetries = 3

// GormStore implements services.ReservationStore on top of gorm.
type GormStore struct {
	db      *gorm.DB
	dialect string
	inTx    bool
}

func NewGormStore(gdb *gorm.DB, dialect string) *GormStore {
	return &GormStore{db: gdb, dialect: dialect}
}

var _ services.ReservationStore = (*GormStore)(nil)

func (s *GormStore) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func activeRoomTypes(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", services.HotelActive).Order("id")
}

func (s *GormStore) ListHotels(ctx context.Context) ([]services.HotelSummary, error) {
	var rows []hotelModel
	err := s.conn(ctx).
		Preload("RoomTypes", activeRoomTypes).
		Where("status = ?", services.HotelActive).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list hotels: %w", err)
	}
	out := make([]services.HotelSummary, 0, len(rows))
	for _, row := range rows {
		h := row.toService()
		sum := services.HotelSummary{Hotel: h, RoomTypes: make([]services.RoomTypeSummary, 0, len(h.RoomTypes))}
		for _, rt := range h.RoomTypes {
			sum.RoomTypes = append(sum.RoomTypes, services.RoomTypeSummary{
				ID:           rt.ID,
				Name:         rt.Name,
				BasePrice:    rt.BasePrice,
				MaxOccupancy: rt.MaxOccupancy,
				Images:       rt.Images,
			})
		}
		sum.Hotel.RoomTypes = nil
		out = append(out, sum)
	}
	return out, nil
}

func (s *GormStore) GetHotel(ctx context.Context, id int64, priceFrom string, priceLimit int) (*services.Hotel, error) {
	var row hotelModel
	err := s.conn(ctx).
		Preload("RoomTypes", activeRoomTypes).
		Preload("RoomTypes.Rooms", "status = ?", services.RoomAvailable).
		Where("id = ? AND status = ?", id, services.HotelActive).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get hotel: %w", err)
	}
	// A preload limit would apply across all room types, so prices are read per type.
	for i := range row.RoomTypes {
		var prices []roomPriceModel
		err := s.conn(ctx).
			Where("room_type_id = ? AND price_date >= ?", row.RoomTypes[i].ID, priceFrom).
			Order("price_date ASC").
			Limit(priceLimit).
			Find(&prices).Error
		if err != nil {
			return nil, fmt.Errorf("get room prices: %w", err)
		}
		row.RoomTypes[i].RoomPrices = prices
	}
	h := row.toService()
	return &h, nil
}

func (s *GormStore) GetRoomType(ctx context.Context, id int64) (*services.RoomType, error) {
	var row roomTypeModel
	err := s.conn(ctx).
		Preload("Hotel").
		Where("id = ? AND status = ?", id, services.HotelActive).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get room type: %w", err)
	}
	rt := row.toService()
	return &rt, nil
}

func (s *GormStore) CountOperableRooms(ctx context.Context, roomTypeID int64) (int, error) {
	var n int64
	err := s.conn(ctx).Model(&roomModel{}).
		Where("room_type_id = ? AND status = ?", roomTypeID, services.RoomAvailable).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count rooms: %w", err)
	}
	return int(n), nil
}

func (s *GormStore) CountOverlapping(ctx context.Context, roomTypeID int64, from, to string) (int, error) {
	var n int64
	err := s.conn(ctx).Model(&reservationModel{}).
		Where("room_type_id = ? AND status IN ?", roomTypeID, services.ActiveReservationStatuses).
		Where("check_in_date < ? AND check_out_date > ?", to, from).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count overlapping: %w", err)
	}
	return int(n), nil
}

func (s *GormStore) NightlyPrices(ctx context.Context, roomTypeID int64, from, to string) (map[string]int64, error) {
	var rows []roomPriceModel
	err := s.conn(ctx).
		Where("room_type_id = ? AND price_date >= ? AND price_date < ?", roomTypeID, from, to).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("nightly prices: %w", err)
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.PriceDate] = row.Price
	}
	return out, nil
}

func (s *GormStore) ReservationCodeExists(ctx context.Context, code string) (bool, error) {
	var n int64
	err := s.conn(ctx).Model(&reservationModel{}).Where("reservation_code = ?", code).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check code: %w", err)
	}
	return n > 0, nil
}

// InsertReservation runs the insert in a nested transaction so a unique violation rolls back to a
// savepoint instead of aborting the surrounding postgres transaction.
func (s *GormStore) InsertReservation(ctx context.Context, r *services.Reservation) error {
	m := reservationFromService(r)
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(&m).Error
	})
	if isUniqueViolation(err) {
		return services.ErrCodeTaken
	}
	if err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	r.ID = m.ID
	return nil
}

func (s *GormStore) GetReservationByCode(ctx context.Context, code string) (*services.ReservationDetail, error) {
	var row reservationModel
	err := s.conn(ctx).
		Preload("Hotel").
		Preload("RoomType").
		Preload("Room").
		Where("reservation_code = ?", code).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	d := &services.ReservationDetail{Reservation: row.toService()}
	if row.Hotel != nil {
		d.Hotel = row.Hotel.toService()
	}
	if row.RoomType != nil {
		d.RoomType = row.RoomType.toService()
		d.RoomType.HotelName = d.Hotel.Name
	}
	if row.Room != nil {
		room := row.Room.toService()
		d.Room = &room
	}
	return d, nil
}

func (s *GormStore) UpdateReservationStatus(ctx context.Context, code string, status, payment int, at time.Time) error {
	err := s.conn(ctx).Model(&reservationModel{}).
		Where("reservation_code = ?", code).
		Updates(map[string]interface{}{
			"status":         status,
			"payment_status": payment,
			"updated_at":     at,
		}).Error
	if err != nil {
		return fmt.Errorf("update reservation: %w", err)
	}
	return nil
}

func (s *GormStore) UpsertRoomPrices(ctx context.Context, prices []services.RoomPrice) error {
	if len(prices) == 0 {
		return nil
	}
	rows := make([]roomPriceModel, 0, len(prices))
	for _, p := range prices {
		rows = append(rows, roomPriceModel{
			RoomTypeID: p.RoomTypeID,
			PriceDate:  p.PriceDate,
			Price:      p.Price,
			IsWeekend:  p.IsWeekend,
			IsHoliday:  p.IsHoliday,
			CreatedAt:  p.CreatedAt,
		})
	}
	err := s.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "room_type_id"}, {Name: "price_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"price", "is_weekend", "is_holiday"}),
	}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("upsert prices: %w", err)
	}
	return nil
}

// Atomic runs fn in a transaction. Postgres uses SERIALIZABLE and replays on serialization
// failures; sqlite connections open with BEGIN IMMEDIATE so writers queue on the database lock.
func (s *GormStore) Atomic(ctx context.Context, fn func(tx services.ReservationStore) error) error {
	if s.inTx {
		return fn(s)
	}
	var opts []*sql.TxOptions
	if s.dialect == DialectPostgres {
		opts = append(opts, &sql.TxOptions{Isolation: sql.LevelSerializable})
	}
	for attempt := 0; ; attempt++ {
		err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(&GormStore{db: tx, dialect: s.dialect, inTx: true})
		}, opts...)
		if isSerializationFailure(err) && attempt < maxSerializationRetries {
			continue
		}
		return err
	}
}
