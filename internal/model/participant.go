package model

import (
	"time"

	"gorm.io/gorm"
)

// Grading statuses shared by both graded records.
const (
	GradingStatusUngraded      = "ungraded"
	GradingStatusScanned       = "scanned"
	GradingStatusAutoGraded    = "autoGraded"
	GradingStatusManualGraded  = "manualGraded"
	GradingStatusPartialGraded = "partialGraded"
)

// ExamParticipant is the live participation record, keyed by
// (exam_id, student_code). The live-exam-taking flow creates it and owns
// fields like EntryTime; the scan pipeline only overwrites the derived
// grading fields, last scan wins.
type ExamParticipant struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	ExamID      uint   `json:"exam_id" gorm:"not null;uniqueIndex:idx_participant_exam_student"`
	StudentCode string `json:"student_code" gorm:"not null;uniqueIndex:idx_participant_exam_student"`

	Answers            GradedAnswerList `json:"answers" gorm:"type:jsonb"`
	SumScore           float64          `json:"sum_score"`
	MaxScore           float64          `json:"max_score"`
	CorrectAnswerCount int              `json:"correct_answer_count"`
	WrongAnswerCount   int              `json:"wrong_answer_count"`
	UnansweredCount    int              `json:"unanswered_count"`
	GradingStatus      string           `json:"grading_status" gorm:"default:'ungraded'"`
	ScanResult         *ScanResult      `json:"scan_result,omitempty" gorm:"type:jsonb"`

	// Owned by the live-exam flow; the reconciler must not touch these.
	EntryTime *time.Time `json:"entry_time,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
