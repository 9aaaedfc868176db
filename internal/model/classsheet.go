package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// GradeEntry is one numeric grade a teacher recorded in a class session.
// TotalPoints is the denominator of that grade; nil means out of 20.
type GradeEntry struct {
	Value       float64  `json:"value"`
	Description string   `json:"description,omitempty"`
	Date        string   `json:"date,omitempty"`
	TotalPoints *float64 `json:"totalPoints,omitempty"`
}

// AssessmentEntry is one qualitative label (عالی, خوب, متوسط, ضعیف,
// بسیار ضعیف) a teacher recorded in a class session.
type AssessmentEntry struct {
	Title  string   `json:"title,omitempty"`
	Value  string   `json:"value"`
	Date   string   `json:"date,omitempty"`
	Weight *float64 `json:"weight,omitempty"`
}

type GradeEntryList []GradeEntry

func (l GradeEntryList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *GradeEntryList) Scan(value interface{}) error {
	return scanJSON(value, l, "GradeEntryList")
}

type AssessmentEntryList []AssessmentEntry

func (l AssessmentEntryList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *AssessmentEntryList) Scan(value interface{}) error {
	return scanJSON(value, l, "AssessmentEntryList")
}

func scanJSON(value interface{}, dst interface{}, name string) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("cannot scan %T into %s", value, name)
		}
		b = []byte(s)
	}
	return json.Unmarshal(b, dst)
}

// ClassSheetEntry is one cell of the teacher's class sheet: everything a
// teacher recorded for one student in one session. Grades and assessments are
// append-only logs owned by the teacher-entry subsystem; the monthly report
// only reads them.
type ClassSheetEntry struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	ClassCode   string `json:"class_code" gorm:"index"`
	CourseCode  string `json:"course_code" gorm:"index"`
	TeacherCode string `json:"teacher_code"`
	StudentCode string `json:"student_code" gorm:"index"`
	SchoolCode  string `json:"school_code"`

	Date     time.Time `json:"date" gorm:"index"`
	TimeSlot string    `json:"time_slot"`
	Note     string    `json:"note,omitempty" gorm:"type:text"`

	Grades         GradeEntryList      `json:"grades" gorm:"type:jsonb"`
	Assessments    AssessmentEntryList `json:"assessments" gorm:"type:jsonb"`
	PresenceStatus *string             `json:"presence_status,omitempty"` // "present", "absent", "late"

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
