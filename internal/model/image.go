package model

// ItemImage is read-only through the API; images are attached out of band
// and listed with their item ordered by SortOrder.
type ItemImage struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ItemID    uint   `gorm:"index;not null" json:"itemId"`
	Path      string `gorm:"type:varchar(512);not null" json:"path"`
	SortOrder int    `gorm:"not null;default:0" json:"sortOrder"`
}
