package service

import (
	"errors"
	"fmt"

	"github.com/omidh/sheetgrade/internal/model"
	"github.com/omidh/sheetgrade/internal/repository"
	"github.com/rs/zerolog/log"
)

// ErrNoQuestions means the exam has no question set. Callers must treat this
// as a hard stop for the whole batch, never as a per-image failure.
var ErrNoQuestions = errors.New("no questions found for this exam")

// DefaultCorrectOption is what a question grades against when nobody
// configured its key. Inherited from the original system; a question without
// a key silently grades as "option 1 is correct". Kept as-is and logged so
// it can be alerted on, see DESIGN.md.
const DefaultCorrectOption = 1

// AnswerKey is the immutable per-batch key: the questions exactly as printed
// and the parallel correct-option vector.
type AnswerKey struct {
	ExamID         uint
	Questions      []model.ExamQuestion
	CorrectAnswers []int
}

type AnswerKeyService interface {
	LoadAnswerKey(examID uint) (*AnswerKey, error)
}

type answerKeyService struct {
	questionRepo repository.QuestionRepository
}

func NewAnswerKeyService(questionRepo repository.QuestionRepository) AnswerKeyService {
	return &answerKeyService{questionRepo: questionRepo}
}

func (s *answerKeyService) LoadAnswerKey(examID uint) (*AnswerKey, error) {
	questions, err := s.questionRepo.FindByExamIDOrdered(examID)
	if err != nil {
		return nil, fmt.Errorf("loading questions for exam %d: %w", examID, err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("exam %d: %w", examID, ErrNoQuestions)
	}

	correctAnswers := make([]int, len(questions))
	for i, q := range questions {
		if q.CorrectOption == nil {
			log.Warn().
				Uint("examID", examID).
				Uint("questionID", q.ID).
				Int("position", i+1).
				Msg("Question has no configured correct option, defaulting to option 1")
			correctAnswers[i] = DefaultCorrectOption
			continue
		}
		correctAnswers[i] = *q.CorrectOption
	}

	return &AnswerKey{ExamID: examID, Questions: questions, CorrectAnswers: correctAnswers}, nil
}
