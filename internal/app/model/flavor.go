package model

import "time"

// DefaultImagePath is served when a flavor has no picture of its own.
const DefaultImagePath = "img/default_flavor.png"

type Flavor struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"not null" json:"price"`
	Available   bool      `gorm:"not null" json:"available"`
	ImagePath   string    `gorm:"size:200;not null;default:'img/default_flavor.png'" json:"image_path"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Flavor) TableName() string {
	return "flavors"
}

// DescriptionText returns the description or an empty string.
func (f Flavor) DescriptionText() string {
	if f.Description == nil {
		return ""
	}
	return *f.Description
}
