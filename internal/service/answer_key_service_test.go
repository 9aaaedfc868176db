package service

import (
	"errors"
	"testing"

	"github.com/omidh/sheetgrade/internal/model"
)

type fakeQuestionRepo struct {
	questions []model.ExamQuestion
	err       error
	calls     int
}

func (f *fakeQuestionRepo) FindByExamIDOrdered(examID uint) ([]model.ExamQuestion, error) {
	f.calls++
	return f.questions, f.err
}

func (f *fakeQuestionRepo) Create(q *model.ExamQuestion) error          { return nil }
func (f *fakeQuestionRepo) FindByID(id uint) (*model.ExamQuestion, error) { return nil, nil }
func (f *fakeQuestionRepo) Update(q *model.ExamQuestion) error          { return nil }
func (f *fakeQuestionRepo) Delete(id uint) error                        { return nil }

func ip(v int) *int { return &v }

func TestLoadAnswerKey(t *testing.T) {
	questions := []model.ExamQuestion{
		{ID: 31, CorrectOption: ip(3)},
		{ID: 32, CorrectOption: nil},
		{ID: 33, CorrectOption: ip(2)},
	}
	svc := NewAnswerKeyService(&fakeQuestionRepo{questions: questions})

	key, err := svc.LoadAnswerKey(7)
	if err != nil {
		t.Fatalf("LoadAnswerKey() error = %v", err)
	}
	if key.ExamID != 7 {
		t.Errorf("ExamID = %d, want 7", key.ExamID)
	}
	if len(key.CorrectAnswers) != len(questions) {
		t.Fatalf("key length = %d, want %d", len(key.CorrectAnswers), len(questions))
	}
	want := []int{3, 1, 2}
	for i, w := range want {
		if key.CorrectAnswers[i] != w {
			t.Errorf("CorrectAnswers[%d] = %d, want %d", i, key.CorrectAnswers[i], w)
		}
	}
	// Questions come back in repository order so position i matches sheet
	// question i+1.
	for i, q := range key.Questions {
		if q.ID != questions[i].ID {
			t.Errorf("Questions[%d].ID = %d, want %d", i, q.ID, questions[i].ID)
		}
	}
}

func TestLoadAnswerKeyNoQuestions(t *testing.T) {
	svc := NewAnswerKeyService(&fakeQuestionRepo{})

	_, err := svc.LoadAnswerKey(9)
	if !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("LoadAnswerKey() error = %v, want ErrNoQuestions", err)
	}
}

func TestLoadAnswerKeyRepositoryError(t *testing.T) {
	repoErr := errors.New("connection reset")
	svc := NewAnswerKeyService(&fakeQuestionRepo{err: repoErr})

	_, err := svc.LoadAnswerKey(9)
	if !errors.Is(err, repoErr) {
		t.Fatalf("LoadAnswerKey() error = %v, want wrapped %v", err, repoErr)
	}
}
