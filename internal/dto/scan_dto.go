package dto

import (
	"github.com/omidh/sheetgrade/internal/model"
	"github.com/omidh/sheetgrade/internal/scanner"
)

// BatchScanReport is the caller-facing outcome of one batch run. Partial
// success is the normal case: every uploaded image lands in exactly one of
// Results or Failed.
type BatchScanReport struct {
	Results []model.ScanResult        `json:"results"`
	Failed  []scanner.RecognitionError `json:"failed"`
	Message string                    `json:"message"`
}

// ManualScanRequest feeds a directly-typed result for one student through
// the same scoring and reconciliation path as the optical route.
type ManualScanRequest struct {
	ExamID      uint             `json:"examId" binding:"required"`
	StudentCode string           `json:"studentCode" binding:"required"`
	ScanResult  model.ScanResult `json:"scanResult" binding:"required"`
}

type ManualScanResponse struct {
	StudentCode     string  `json:"studentCode"`
	CorrectCount    int     `json:"correctCount"`
	WrongCount      int     `json:"wrongCount"`
	UnansweredCount int     `json:"unansweredCount"`
	Score           float64 `json:"score"`
	MaxScore        float64 `json:"maxScore"`
}

// SheetScanResponse is the single-sheet mobile flow response: identity comes
// out of the sheet itself, so the caller learns which student and exam the
// image belonged to.
type SheetScanResponse struct {
	StudentCode       string `json:"studentCode"`
	ExamCode          string `json:"examCode"`
	ExamName          string `json:"examName"`
	QRCodeData        string `json:"qrCodeData"`
	RightAnswers      []int  `json:"rightAnswers"`
	WrongAnswers      []int  `json:"wrongAnswers"`
	MultipleAnswers   []int  `json:"multipleAnswers"`
	Unanswered        []int  `json:"unAnswered"`
	CorrectedImageURL string `json:"correctedImageUrl"`
	Score             float64 `json:"score"`
	MaxScore          float64 `json:"maxScore"`
	TotalQuestions    int    `json:"totalQuestions"`
}

type QuestionKeyDTO struct {
	QuestionID    uint    `json:"questionId"`
	Position      int     `json:"position"` // 1-based print position
	CorrectOption int     `json:"correctOption"`
	MaxScore      float64 `json:"maxScore"`
	Category      string  `json:"category"`
}

// AnswerKeyResponse is consumed by the sheet-printing surface; ordering
// matches the physical print order.
type AnswerKeyResponse struct {
	ExamID         uint             `json:"examId"`
	QuestionCount  int              `json:"questionCount"`
	CorrectAnswers []int            `json:"correctAnswers"`
	Questions      []QuestionKeyDTO `json:"questions"`
}
