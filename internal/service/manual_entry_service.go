package service

import (
	"errors"
	"fmt"

	"github.com/omidh/sheetgrade/internal/dto"
	"github.com/omidh/sheetgrade/internal/model"
	"github.com/omidh/sheetgrade/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ManualEntryService is the sibling entry point to the optical route: a
// directly-typed result document for one known student, no image and no
// worker. It runs through the same scoring and reconciliation code, so the
// persisted shape is identical to a scanned sheet's.
type ManualEntryService interface {
	SaveResult(examID uint, studentCode string, result *model.ScanResult) (*dto.ManualScanResponse, error)
}

type manualEntryService struct {
	examRepo     repository.ExamRepository
	answerKeySvc AnswerKeyService
	scoreSvc     ScoreService
	reconcileSvc ReconcileService
}

func NewManualEntryService(
	examRepo repository.ExamRepository,
	answerKeySvc AnswerKeyService,
	scoreSvc ScoreService,
	reconcileSvc ReconcileService,
) ManualEntryService {
	return &manualEntryService{
		examRepo:     examRepo,
		answerKeySvc: answerKeySvc,
		scoreSvc:     scoreSvc,
		reconcileSvc: reconcileSvc,
	}
}

func (s *manualEntryService) SaveResult(examID uint, studentCode string, result *model.ScanResult) (*dto.ManualScanResponse, error) {
	exam, err := s.examRepo.FindByID(examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("exam %d: %w", examID, ErrExamNotFound)
		}
		return nil, fmt.Errorf("loading exam %d: %w", examID, err)
	}

	key, err := s.answerKeySvc.LoadAnswerKey(examID)
	if err != nil {
		return nil, err
	}

	answers, summary := s.scoreSvc.GradeScan(key.Questions, result)
	if err := s.reconcileSvc.Reconcile(exam, studentCode, answers, summary, result); err != nil {
		return nil, err
	}

	log.Info().Uint("examID", examID).Str("studentCode", studentCode).Msg("Manual result saved")

	return &dto.ManualScanResponse{
		StudentCode:     studentCode,
		CorrectCount:    summary.CorrectAnswerCount,
		WrongCount:      summary.WrongAnswerCount,
		UnansweredCount: summary.UnansweredCount,
		Score:           summary.SumScore,
		MaxScore:        summary.MaxScore,
	}, nil
}
