package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// GradedAnswer is the per-question derivation for one student. It is computed
// fresh from the scan result and the answer key on every write and never
// mutated on its own.
type GradedAnswer struct {
	QuestionID   uint    `json:"questionId"`
	Answer       string  `json:"answer"` // "1".."4", empty when unanswered
	ExamID       uint    `json:"examId"`
	IsCorrect    bool    `json:"isCorrect"`
	MaxScore     float64 `json:"maxScore"`
	EarnedScore  float64 `json:"earnedScore"`
	Category     string  `json:"category"`
	NeedsGrading bool    `json:"needsGrading"`
}

// GradedAnswerList is stored as a jsonb column on both graded records.
type GradedAnswerList []GradedAnswer

func (l GradedAnswerList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *GradedAnswerList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			b = []byte(s)
		} else {
			return fmt.Errorf("cannot scan %T into GradedAnswerList", value)
		}
	}
	return json.Unmarshal(b, l)
}

// ScanResult is the recognition worker's output document, parsed from the
// scanner process stdout. Position sets are 1-based question numbers computed
// by the worker itself from the supplied key; the grader trusts them rather
// than recomputing from UserAnswers, so the stored result always matches what
// was rendered on the corrected image. Immutable after creation.
type ScanResult struct {
	QRCodeData        string `json:"qRCodeData,omitempty"`
	RightAnswers      []int  `json:"rightAnswers"`
	WrongAnswers      []int  `json:"wrongAnswers"`
	MultipleAnswers   []int  `json:"multipleAnswers"`
	Unanswered        []int  `json:"unAnswered"`
	UserAnswers       []int  `json:"Useranswers"` // 0 = unanswered, field name fixed by the scanner contract
	CorrectedImageURL string `json:"correctedImageUrl"`
	OriginalFilename  string `json:"originalFilename,omitempty"`
	ProcessedFilePath string `json:"processedFilePath,omitempty"`
}

func (r ScanResult) Value() (driver.Value, error) {
	return json.Marshal(r)
}

func (r *ScanResult) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			b = []byte(s)
		} else {
			return fmt.Errorf("cannot scan %T into ScanResult", value)
		}
	}
	return json.Unmarshal(b, r)
}

// ScoreSummary carries the derived counters written identically to the
// participation and submission records.
type ScoreSummary struct {
	SumScore           float64 `json:"sumScore"` // count of correct positions; weights show up in answers[].earnedScore
	MaxScore           float64 `json:"maxScore"` // sum of per-question max scores
	CorrectAnswerCount int     `json:"correctAnswerCount"`
	WrongAnswerCount   int     `json:"wrongAnswerCount"`
	UnansweredCount    int     `json:"unansweredCount"`
}
