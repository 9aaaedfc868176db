package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/omidh/sheetgrade/internal/dto"
	"github.com/omidh/sheetgrade/internal/repository"
	"github.com/omidh/sheetgrade/internal/scanner"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ErrIdentityUnreadable means the first recognition pass produced no identity
// payload, so the sheet cannot be attributed to a student or exam.
var ErrIdentityUnreadable = errors.New("no identity payload on sheet")

// dummyKeyLength sizes the throwaway key for the identity pass. The scanner
// needs *some* key to run; 120 positions covers every printed sheet layout.
const dummyKeyLength = 120

// SingleScanService is the mobile flow: one image, exam unknown up front.
// Pass one runs the scanner with a dummy key just to read the identity
// payload; the embedded exam code locates the exam and its real key; pass two
// re-runs the scanner with that key and the outcome is reconciled through the
// shared path.
type SingleScanService interface {
	ScanSheet(ctx context.Context, imagePath, originalFilename, variant string) (*dto.SheetScanResponse, error)
}

type singleScanService struct {
	examRepo     repository.ExamRepository
	answerKeySvc AnswerKeyService
	scoreSvc     ScoreService
	reconcileSvc ReconcileService
	workers      scanner.Factory
}

func NewSingleScanService(
	examRepo repository.ExamRepository,
	answerKeySvc AnswerKeyService,
	scoreSvc ScoreService,
	reconcileSvc ReconcileService,
	workers scanner.Factory,
) SingleScanService {
	return &singleScanService{
		examRepo:     examRepo,
		answerKeySvc: answerKeySvc,
		scoreSvc:     scoreSvc,
		reconcileSvc: reconcileSvc,
		workers:      workers,
	}
}

func (s *singleScanService) ScanSheet(ctx context.Context, imagePath, originalFilename, variant string) (*dto.SheetScanResponse, error) {
	worker, err := s.workers.NewWorker(variant)
	if err != nil {
		return nil, err
	}

	// Pass 1: dummy key, only the identity payload matters.
	dummyKey := make([]int, dummyKeyLength)
	for i := range dummyKey {
		dummyKey[i] = 1
	}
	initial, err := worker.Recognize(ctx, imagePath, dummyKey)
	if err != nil {
		return nil, err
	}
	if initial.QRCodeData == "" {
		return nil, fmt.Errorf("%w (file %s)", ErrIdentityUnreadable, originalFilename)
	}

	studentCode, examCode, err := ParseIdentityPayload(initial.QRCodeData)
	if err != nil {
		return nil, err
	}
	log.Info().Str("studentCode", studentCode).Str("examCode", examCode).Msg("Identity payload read from sheet")

	exam, err := s.examRepo.FindByCode(examCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("exam with code %s: %w", examCode, ErrExamNotFound)
		}
		return nil, fmt.Errorf("loading exam by code %s: %w", examCode, err)
	}

	key, err := s.answerKeySvc.LoadAnswerKey(exam.ID)
	if err != nil {
		return nil, err
	}

	// Pass 2: real key, this result is what gets graded and persisted.
	final, err := worker.Recognize(ctx, imagePath, key.CorrectAnswers)
	if err != nil {
		return nil, err
	}
	final.OriginalFilename = originalFilename

	answers, summary := s.scoreSvc.GradeScan(key.Questions, final)
	if err := s.reconcileSvc.Reconcile(exam, studentCode, answers, summary, final); err != nil {
		return nil, err
	}

	return &dto.SheetScanResponse{
		StudentCode:       studentCode,
		ExamCode:          examCode,
		ExamName:          exam.Title,
		QRCodeData:        final.QRCodeData,
		RightAnswers:      final.RightAnswers,
		WrongAnswers:      final.WrongAnswers,
		MultipleAnswers:   final.MultipleAnswers,
		Unanswered:        final.Unanswered,
		CorrectedImageURL: final.CorrectedImageURL,
		Score:             summary.SumScore,
		MaxScore:          summary.MaxScore,
		TotalQuestions:    len(key.Questions),
	}, nil
}
