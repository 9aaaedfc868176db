package model

import (
	"time"

	"gorm.io/gorm"
)

// ExamSubmission is the canonical finished-submission record for
// (exam_id, student_code). It carries everything the participation record
// does plus entry/grading timestamps and the finished flag. Both records are
// written from the same derived answer set in one reconciliation step.
type ExamSubmission struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	ExamID      uint   `json:"exam_id" gorm:"not null;uniqueIndex:idx_submission_exam_student"`
	StudentCode string `json:"student_code" gorm:"not null;uniqueIndex:idx_submission_exam_student"`
	SchoolCode  string `json:"school_code"`

	EntryTime        *time.Time `json:"entry_time,omitempty"`
	EntryDate        *time.Time `json:"entry_date,omitempty"`
	PersianEntryDate string     `json:"persian_entry_date,omitempty"`

	Answers            GradedAnswerList `json:"answers" gorm:"type:jsonb"`
	IsFinished         bool             `json:"is_finished"`
	LastSavedTime      *time.Time       `json:"last_saved_time,omitempty"`
	SumScore           float64          `json:"sum_score"`
	MaxScore           float64          `json:"max_score"`
	CorrectAnswerCount int              `json:"correct_answer_count"`
	WrongAnswerCount   int              `json:"wrong_answer_count"`
	UnansweredCount    int              `json:"unanswered_count"`
	GradingStatus      string           `json:"grading_status" gorm:"default:'ungraded'"`
	GradingTime        *time.Time       `json:"grading_time,omitempty"`
	ScanResult         *ScanResult      `json:"scan_result,omitempty" gorm:"type:jsonb"`
	QRCodeData         string           `json:"qr_code_data,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
