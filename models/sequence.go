package models

import "time"

// NumberSequence is the last number issued for a document kind in a year.
// Year is 0 for kinds whose references carry no year.
type NumberSequence struct {
	Kind      string `gorm:"primaryKey;size:20"`
	Year      int    `gorm:"primaryKey;autoIncrement:false"`
	LastValue int64  `gorm:"not null"`
	UpdatedAt time.Time
}
