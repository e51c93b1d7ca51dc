package model

import (
	"time"

	"gorm.io/datatypes"
)

// Item is a single tracked inventory record. Decimal columns are kept as
// exact decimals (NUMERIC in Postgres) and marshal as quoted strings on the
// wire, so no value ever passes through a binary float.
type Item struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Name           string         `gorm:"type:varchar(255);not null" json:"name"`
	Source         *string        `gorm:"type:varchar(255)" json:"source"`
	Category       *string        `gorm:"type:varchar(100)" json:"category"`
	Quantity       *Decimal       `gorm:"type:numeric(12,3)" json:"quantity"`
	Unit           *string        `gorm:"type:varchar(20)" json:"unit"`
	UsedQuantity   Decimal        `gorm:"type:numeric(12,3);not null" json:"usedQuantity"`
	ProductionDate *time.Time     `json:"productionDate"`
	ExpiryDate     *time.Time     `json:"expiryDate"`
	LocationID     *uint          `json:"locationId"`
	Price          *Decimal       `gorm:"type:numeric(12,2)" json:"price"`
	ExtraInfo      datatypes.JSON `gorm:"type:jsonb" json:"extraInfo,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`

	// Relasi
	Location *Location   `json:"location,omitempty"`
	Images   []ItemImage `json:"images"`
}
