package model

import (
	"time"

	"gorm.io/gorm"
)

type Exam struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	Title      string         `json:"title" gorm:"not null"`
	ExamCode   string         `json:"exam_code" gorm:"not null;uniqueIndex"` // printed on the sheet, embedded in the identity payload
	SchoolCode string         `json:"school_code" gorm:"index"`
	Questions  []ExamQuestion `json:"questions,omitempty" gorm:"foreignKey:ExamID"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
