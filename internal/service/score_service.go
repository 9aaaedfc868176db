package service

import (
	"strconv"

	"github.com/omidh/sheetgrade/internal/model"
)

// assessmentAdjustments maps the qualitative labels the teacher-entry
// subsystem persists to their fixed score adjustments. Unknown labels
// contribute zero.
var assessmentAdjustments = map[string]float64{
	"عالی":       2,
	"خوب":        1,
	"متوسط":      0,
	"ضعیف":       -1,
	"بسیار ضعیف": -2,
}

// DefaultGradeTotalPoints is the denominator assumed for a grade entry that
// doesn't carry one.
const DefaultGradeTotalPoints = 20.0

// ScoreService hosts the two scoring algorithms. Both are pure: GradeScan
// derives per-question answers and counters from a recognition result, and
// CalculateFinalScore is the monthly normalizer reused by the teacher-facing
// report outside the scanning flow entirely.
type ScoreService interface {
	GradeScan(questions []model.ExamQuestion, result *model.ScanResult) (model.GradedAnswerList, model.ScoreSummary)
	CalculateFinalScore(grades []model.GradeEntry, assessments []model.AssessmentEntry) *float64
}

type scoreService struct{}

func NewScoreService() ScoreService {
	return &scoreService{}
}

// GradeScan derives one GradedAnswer per printed question position. The
// correctness sets were computed by the worker from the supplied key and are
// trusted as-is so the persisted grade always agrees with the corrected image
// the worker rendered. Question identity is positional: questions[i] is
// question number i+1 on the sheet.
func (s *scoreService) GradeScan(questions []model.ExamQuestion, result *model.ScanResult) (model.GradedAnswerList, model.ScoreSummary) {
	rightSet := toSet(result.RightAnswers)

	answers := make(model.GradedAnswerList, len(questions))
	var totalMaxScore float64

	for i, q := range questions {
		questionNumber := i + 1
		maxScore := q.MaxScore
		if maxScore == 0 {
			maxScore = 1
		}
		totalMaxScore += maxScore

		answer := ""
		if i < len(result.UserAnswers) && result.UserAnswers[i] != 0 {
			answer = strconv.Itoa(result.UserAnswers[i])
		}

		isCorrect := rightSet[questionNumber]
		earned := 0.0
		if isCorrect {
			earned = maxScore
		}

		category := q.Category
		if category == "" {
			category = "test"
		}

		answers[i] = model.GradedAnswer{
			QuestionID:   q.ID,
			Answer:       answer,
			ExamID:       q.ExamID,
			IsCorrect:    isCorrect,
			MaxScore:     maxScore,
			EarnedScore:  earned,
			Category:     category,
			NeedsGrading: false,
		}
	}

	summary := model.ScoreSummary{
		SumScore:           float64(len(result.RightAnswers)),
		MaxScore:           totalMaxScore,
		CorrectAnswerCount: len(result.RightAnswers),
		WrongAnswerCount:   len(result.WrongAnswers),
		UnansweredCount:    len(result.Unanswered),
	}
	return answers, summary
}

// CalculateFinalScore computes the monthly normalized score:
//
//	base  = (sum of grade values / sum of total points) * 20
//	final = clamp(base + sum of assessment adjustments, 0, 20)
//
// No grades means no score (nil), however many assessments exist. Grades
// without assessments return the base unclamped; clamping only applies once
// adjustments are in play.
func (s *scoreService) CalculateFinalScore(grades []model.GradeEntry, assessments []model.AssessmentEntry) *float64 {
	if len(grades) == 0 {
		return nil
	}

	var sumValues, sumTotalPoints float64
	for _, g := range grades {
		sumValues += g.Value
		if g.TotalPoints != nil && *g.TotalPoints > 0 {
			sumTotalPoints += *g.TotalPoints
		} else {
			sumTotalPoints += DefaultGradeTotalPoints
		}
	}
	base := (sumValues / sumTotalPoints) * 20

	if len(assessments) == 0 {
		return &base
	}

	var adjustment float64
	for _, a := range assessments {
		adjustment += assessmentAdjustments[a.Value]
	}

	final := base + adjustment
	if final > 20 {
		final = 20
	}
	if final < 0 {
		final = 0
	}
	return &final
}

func toSet(nums []int) map[int]bool {
	set := make(map[int]bool, len(nums))
	for _, n := range nums {
		set[n] = true
	}
	return set
}
