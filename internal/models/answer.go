package models

import (
	"time"
)

type Answer struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	AddedAt    time.Time `gorm:"autoCreateTime;index" json:"added_at"`
	QuestionID uint      `gorm:"not null;index" json:"question_id"`
	Question   Question  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	AuthorID   *uint     `gorm:"index" json:"author_id"` // always nil for anonymous answers
	Author     *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"author,omitempty"`
}
