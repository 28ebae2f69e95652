package models

import (
	"time"
)

const QuestionTitleMaxLen = 1024

type Question struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Title    string    `gorm:"size:1024;not null" json:"title"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	AddedAt  time.Time `gorm:"autoCreateTime;index" json:"added_at"`
	Rating   int       `gorm:"not null;default:0;index" json:"rating"` // likes minus dislikes
	AuthorID *uint     `gorm:"index" json:"author_id"`                 // nulled when the author is removed
	Author   *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"author,omitempty"`
}
