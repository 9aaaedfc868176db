package service

import (
	"testing"

	"github.com/omidh/sheetgrade/internal/model"
)

func fp(v float64) *float64 { return &v }

func TestCalculateFinalScore(t *testing.T) {
	svc := NewScoreService()

	tests := []struct {
		name        string
		grades      []model.GradeEntry
		assessments []model.AssessmentEntry
		want        *float64
	}{
		{
			name:   "grades only, default total points",
			grades: []model.GradeEntry{{Value: 18}},
			want:   fp(18),
		},
		{
			name:        "excellent assessment hits the cap exactly",
			grades:      []model.GradeEntry{{Value: 18}},
			assessments: []model.AssessmentEntry{{Value: "عالی"}},
			want:        fp(20),
		},
		{
			name:        "very weak assessment",
			grades:      []model.GradeEntry{{Value: 18}},
			assessments: []model.AssessmentEntry{{Value: "بسیار ضعیف"}},
			want:        fp(16),
		},
		{
			name:        "no grades means no score regardless of assessments",
			grades:      nil,
			assessments: []model.AssessmentEntry{{Value: "عالی"}, {Value: "خوب"}},
			want:        nil,
		},
		{
			name:   "explicit total points normalize to the 20 scale",
			grades: []model.GradeEntry{{Value: 45, TotalPoints: fp(50)}},
			want:   fp(18),
		},
		{
			name:   "mixed denominators sum before normalizing",
			grades: []model.GradeEntry{{Value: 18}, {Value: 9, TotalPoints: fp(10)}},
			want:   fp(18), // (18+9)/(20+10)*20
		},
		{
			name:        "adjustments clamp at 20",
			grades:      []model.GradeEntry{{Value: 19}},
			assessments: []model.AssessmentEntry{{Value: "عالی"}, {Value: "عالی"}},
			want:        fp(20),
		},
		{
			name:        "adjustments clamp at 0",
			grades:      []model.GradeEntry{{Value: 1}},
			assessments: []model.AssessmentEntry{{Value: "بسیار ضعیف"}, {Value: "بسیار ضعیف"}},
			want:        fp(0),
		},
		{
			name:        "unknown label contributes nothing",
			grades:      []model.GradeEntry{{Value: 15}},
			assessments: []model.AssessmentEntry{{Value: "nonsense"}},
			want:        fp(15),
		},
		{
			name:        "average label is a zero adjustment",
			grades:      []model.GradeEntry{{Value: 12}},
			assessments: []model.AssessmentEntry{{Value: "متوسط"}},
			want:        fp(12),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.CalculateFinalScore(tt.grades, tt.assessments)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("CalculateFinalScore() = %v, want %v", got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("CalculateFinalScore() = %v, want %v", *got, *tt.want)
			}
		})
	}
}

func TestGradeScan(t *testing.T) {
	svc := NewScoreService()

	questions := []model.ExamQuestion{
		{ID: 11, ExamID: 1, MaxScore: 1},
		{ID: 12, ExamID: 1, MaxScore: 3, Category: "test"},
		{ID: 13, ExamID: 1}, // MaxScore unset, grades out of 1
		{ID: 14, ExamID: 1, MaxScore: 1},
	}
	result := &model.ScanResult{
		RightAnswers: []int{1, 2},
		WrongAnswers: []int{4},
		Unanswered:   []int{3},
		UserAnswers:  []int{2, 3, 0, 1},
	}

	answers, summary := svc.GradeScan(questions, result)

	if len(answers) != len(questions) {
		t.Fatalf("got %d graded answers, want %d", len(answers), len(questions))
	}

	wantAnswers := []struct {
		questionID  uint
		answer      string
		isCorrect   bool
		earnedScore float64
		maxScore    float64
	}{
		{11, "2", true, 1, 1},
		{12, "3", true, 3, 3},
		{13, "", false, 0, 1},
		{14, "1", false, 0, 1},
	}
	for i, want := range wantAnswers {
		got := answers[i]
		if got.QuestionID != want.questionID || got.Answer != want.answer ||
			got.IsCorrect != want.isCorrect || got.EarnedScore != want.earnedScore || got.MaxScore != want.maxScore {
			t.Errorf("answer[%d] = %+v, want %+v", i, got, want)
		}
		if got.NeedsGrading {
			t.Errorf("answer[%d].NeedsGrading = true, scan-derived answers never need grading", i)
		}
	}

	if summary.SumScore != 2 {
		t.Errorf("SumScore = %v, want 2 (count of correct positions, weights ignored)", summary.SumScore)
	}
	if summary.MaxScore != 6 {
		t.Errorf("MaxScore = %v, want 6 (sum of per-question max scores)", summary.MaxScore)
	}
	if summary.CorrectAnswerCount != 2 || summary.WrongAnswerCount != 1 || summary.UnansweredCount != 1 {
		t.Errorf("counters = %d/%d/%d, want 2/1/1",
			summary.CorrectAnswerCount, summary.WrongAnswerCount, summary.UnansweredCount)
	}
	// The worker's convention: right, wrong and unanswered partition the sheet.
	if got := summary.CorrectAnswerCount + summary.WrongAnswerCount + summary.UnansweredCount; got != len(questions) {
		t.Errorf("correct+wrong+unanswered = %d, want question count %d", got, len(questions))
	}
}

func TestGradeScanTrustsWorkerSets(t *testing.T) {
	svc := NewScoreService()

	// The raw answer vector says option 2 everywhere, but the worker's right
	// set only names position 1. The calculator must follow the sets, not
	// recompute from the vector.
	questions := []model.ExamQuestion{{ID: 1, MaxScore: 1}, {ID: 2, MaxScore: 1}}
	result := &model.ScanResult{
		RightAnswers: []int{1},
		WrongAnswers: []int{2},
		UserAnswers:  []int{2, 2},
	}

	answers, _ := svc.GradeScan(questions, result)
	if !answers[0].IsCorrect {
		t.Error("position 1 should be correct per the worker's right set")
	}
	if answers[1].IsCorrect {
		t.Error("position 2 should be wrong per the worker's sets, even with an identical raw answer")
	}
}
