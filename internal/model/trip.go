package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Trip is one entry of a user's trip list. Trips are copies of a catalog
// template or of a selection shared by another user.
type Trip struct {
	ID            uuid.UUID `json:"-" gorm:"type:char(36);primaryKey"`
	UserID        uuid.UUID `json:"-" gorm:"type:char(36);not null;index:idx_trips_user_position,priority:1"`
	Position      int       `json:"-" gorm:"not null;index:idx_trips_user_position,priority:2"`
	Location      string    `json:"location" gorm:"size:255;not null"`
	DepartureDate string    `json:"departure_date" gorm:"size:10;not null"` // dd/mm/yyyy
	ReturnDate    string    `json:"return_date" gorm:"size:10;not null"`    // dd/mm/yyyy
	GuidedTour    bool      `json:"guided_tour"`
	Lodging       bool      `json:"lodging"`
	Breakfast     bool      `json:"breakfast"`
	People        []string  `json:"people" gorm:"serializer:json;type:text"`
	CreatedAt     time.Time `json:"-"`
}

// BeforeCreate sets UUID before creating the record.
func (t *Trip) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Clone returns a copy that shares no slices with t and carries no storage identity.
func (t Trip) Clone() Trip {
	out := Trip{
		Location:      t.Location,
		DepartureDate: t.DepartureDate,
		ReturnDate:    t.ReturnDate,
		GuidedTour:    t.GuidedTour,
		Lodging:       t.Lodging,
		Breakfast:     t.Breakfast,
		People:        make([]string, len(t.People)),
	}
	copy(out.People, t.People)
	return out
}
