package model

import "time"

// Post is a single entry. CreatedAt is the publication time and never changes.
type Post struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Text      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"index:idx_post_created;not null"`
	AuthorID  string    `gorm:"type:varchar(36);index:idx_post_author;not null"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	GroupID   *string   `gorm:"type:varchar(36);index:idx_post_group"`
	Group     *Group    `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL"`
	Image     string    `gorm:"type:varchar(255)"`
	Comments  []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	UpdatedAt time.Time
}

func (Post) TableName() string { return "posts" }

