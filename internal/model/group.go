package model

import "time"

// Group is a topic posts can be filed under. Created only through the admin CLI.
type Group struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	Title       string `gorm:"type:varchar(200);not null"`
	Slug        string `gorm:"type:varchar(100);uniqueIndex;not null"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time
}

func (Group) TableName() string { return "groups" }
