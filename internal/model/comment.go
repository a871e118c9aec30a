package model

import "time"

type Comment struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	PostID    uint      `gorm:"index:idx_comment_post;not null"`
	AuthorID  string    `gorm:"type:varchar(36);index:idx_comment_author;not null"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Text      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (Comment) TableName() string { return "comments" }
