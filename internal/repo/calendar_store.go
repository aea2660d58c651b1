package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"farmbooking/internal/booking"
	"farmbooking/internal/models"
)

// CalendarStore is the gorm-backed booking.Store. Atomicity of ApplyChanges
// comes from running the whole batch in one transaction.
type CalendarStore struct{ db *gorm.DB }

func NewCalendarStore(db *gorm.DB) *CalendarStore { return &CalendarStore{db: db} }

func (s *CalendarStore) farmhouseExists(ctx context.Context, tx *gorm.DB, farmhouseID uint) error {
	var n int64
	if err := tx.WithContext(ctx).Model(&models.Farmhouse{}).Where("id = ?", farmhouseID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return booking.ErrNotFound
	}
	return nil
}

func (s *CalendarStore) GetRange(ctx context.Context, farmhouseID uint, start, end booking.Day) ([]booking.DayState, error) {
	if !start.Valid() || !end.Valid() {
		return nil, booking.ErrInvalidDay
	}
	if err := s.farmhouseExists(ctx, s.db, farmhouseID); err != nil {
		return nil, err
	}
	var rows []models.DayStatus
	err := s.db.WithContext(ctx).
		Where("farmhouse_id = ? AND day >= ? AND day <= ?", farmhouseID, start.Time(), end.Time()).
		Order("day asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]booking.DayState, 0, len(rows))
	for _, r := range rows {
		out = append(out, booking.DayState{
			Day:         booking.DayOf(r.Day),
			IsBooked:    r.IsBooked,
			AdminBooked: r.AdminBooked,
			Note:        r.Note,
		})
	}
	return out, nil
}

func (s *CalendarStore) ApplyChanges(ctx context.Context, farmhouseID uint, changes []booking.Change) error {
	for _, c := range changes {
		if !c.Day.Valid() {
			return booking.ErrInvalidDay
		}
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.farmhouseExists(ctx, tx, farmhouseID); err != nil {
			return err
		}
		for _, c := range changes {
			var row models.DayStatus
			err := tx.Where("farmhouse_id = ? AND day = ?", farmhouseID, c.Day.Time()).First(&row).Error
			switch {
			case err == nil:
				row.IsBooked = c.IsBooked
				row.AdminBooked = c.AdminBooked
				row.Note = c.Note
				if err := tx.Save(&row).Error; err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				row = models.DayStatus{
					FarmhouseID: farmhouseID,
					Day:         c.Day.Time(),
					IsBooked:    c.IsBooked,
					AdminBooked: c.AdminBooked,
					Note:        c.Note,
				}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			default:
				return err
			}
		}
		return nil
	})
}

func (s *CalendarStore) BookedOn(ctx context.Context, day booking.Day) ([]uint, error) {
	if !day.Valid() {
		return nil, booking.ErrInvalidDay
	}
	var ids []uint
	err := s.db.WithContext(ctx).Model(&models.DayStatus{}).
		Where("day = ? AND is_booked = ?", day.Time(), true).
		Pluck("farmhouse_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
