package models

import (
	"time"

	"gorm.io/datatypes"
)

type Farmhouse struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name     string `gorm:"size:255;not null" json:"name"`
	OwnerID  uint   `gorm:"index;not null" json:"owner_id"`
	Size     int    `json:"size"`
	Location string `gorm:"size:255" json:"location"`

	// Free-form attributes (amenity list etc.), stored as a JSON column.
	Amenities datatypes.JSON `json:"amenities,omitempty"`

	Owner *Account `gorm:"foreignKey:OwnerID" json:"-"`
}
