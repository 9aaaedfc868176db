package model

import (
	"time"

	"gorm.io/gorm"
)

// ExamQuestion is one printed question of an exam. Question identity on the
// sheet is positional: the grader orders questions by created_at descending
// (the print order) and never by ID.
type ExamQuestion struct {
	ID     uint `gorm:"primarykey" json:"id"`
	ExamID uint `json:"exam_id" gorm:"not null;index"`
	Exam   Exam `json:"exam,omitempty" gorm:"foreignKey:ExamID"`

	Text     string `json:"text" gorm:"type:text"`
	Category string `json:"category" gorm:"default:'test'"`

	// CorrectOption is 1..4. A nil value means nobody configured a key for
	// this question; the loader then falls back to option 1 (inherited
	// behavior, logged loudly when it happens).
	CorrectOption *int    `json:"correct_option,omitempty"`
	MaxScore      float64 `json:"max_score" gorm:"default:1"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
