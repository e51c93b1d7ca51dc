package model

import "time"

type Location struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name" validate:"required"`
	CreatedAt time.Time `json:"createdAt"`
}
