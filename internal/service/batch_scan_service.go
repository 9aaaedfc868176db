package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/omidh/sheetgrade/config"
	"github.com/omidh/sheetgrade/internal/dto"
	"github.com/omidh/sheetgrade/internal/model"
	"github.com/omidh/sheetgrade/internal/repository"
	"github.com/omidh/sheetgrade/internal/scanner"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
	"gorm.io/gorm"
)

// ErrExamNotFound aborts a batch before any recognition is dispatched.
var ErrExamNotFound = errors.New("exam not found")

// SheetImage is one uploaded answer-sheet image, already saved to disk under
// a generated unique name.
type SheetImage struct {
	Path             string
	OriginalFilename string
}

// BatchScanService fans a batch of sheet images out to concurrent worker
// invocations, collects every outcome, and persists the graded results.
// Failure of one image never affects its siblings; the report always
// satisfies len(Results)+len(Failed) == len(sheets).
type BatchScanService interface {
	RunBatch(ctx context.Context, examID uint, sheets []SheetImage, variant string) (*dto.BatchScanReport, error)
}

type batchScanService struct {
	examRepo     repository.ExamRepository
	answerKeySvc AnswerKeyService
	scoreSvc     ScoreService
	reconcileSvc ReconcileService
	workers      scanner.Factory
	maxInFlight  int64
}

func NewBatchScanService(
	examRepo repository.ExamRepository,
	answerKeySvc AnswerKeyService,
	scoreSvc ScoreService,
	reconcileSvc ReconcileService,
	workers scanner.Factory,
	cfg *config.Config,
) BatchScanService {
	maxInFlight := int64(cfg.Scan.MaxConcurrent)
	if maxInFlight <= 0 {
		maxInFlight = 4
	}
	return &batchScanService{
		examRepo:     examRepo,
		answerKeySvc: answerKeySvc,
		scoreSvc:     scoreSvc,
		reconcileSvc: reconcileSvc,
		workers:      workers,
		maxInFlight:  maxInFlight,
	}
}

// sheetOutcome carries one image's result back from its goroutine. Exactly
// one of result/failure is set.
type sheetOutcome struct {
	result  *model.ScanResult
	failure *scanner.RecognitionError
}

func (s *batchScanService) RunBatch(ctx context.Context, examID uint, sheets []SheetImage, variant string) (*dto.BatchScanReport, error) {
	// Setup errors are batch-fatal and must fire before any process spawns.
	worker, err := s.workers.NewWorker(variant)
	if err != nil {
		return nil, err
	}

	exam, err := s.examRepo.FindByID(examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("exam %d: %w", examID, ErrExamNotFound)
		}
		return nil, fmt.Errorf("loading exam %d: %w", examID, err)
	}

	// The key is loaded exactly once and stays immutable for the whole batch.
	key, err := s.answerKeySvc.LoadAnswerKey(examID)
	if err != nil {
		return nil, err
	}

	log.Info().
		Uint("examID", examID).
		Int("sheets", len(sheets)).
		Int("questions", len(key.Questions)).
		Str("variant", variant).
		Msg("Starting batch scan")

	outcomes := s.recognizeAll(ctx, worker, key, sheets)

	report := &dto.BatchScanReport{
		Results: make([]model.ScanResult, 0, len(sheets)),
		Failed:  make([]scanner.RecognitionError, 0),
	}
	for _, outcome := range outcomes {
		if outcome.failure != nil {
			report.Failed = append(report.Failed, *outcome.failure)
			continue
		}
		report.Results = append(report.Results, *outcome.result)
	}
	report.Message = fmt.Sprintf("Successfully processed %d out of %d files", len(report.Results), len(sheets))

	// Persistence runs strictly after recognition, sequentially, one student
	// at a time. A storage failure is fatal for the students not yet
	// written; everything already written stands.
	for i := range report.Results {
		result := &report.Results[i]

		studentCode := ResolveStudentCode(result.QRCodeData)
		if studentCode == "" {
			log.Warn().
				Str("file", result.OriginalFilename).
				Msg("Sheet has no identity payload, skipping persistence")
			continue
		}

		answers, summary := s.scoreSvc.GradeScan(key.Questions, result)
		if err := s.reconcileSvc.Reconcile(exam, studentCode, answers, summary, result); err != nil {
			return report, fmt.Errorf("persisting results for student %s: %w", studentCode, err)
		}
	}

	return report, nil
}

// recognizeAll dispatches one worker invocation per sheet, bounded by the
// configured pool size, and blocks until every invocation has terminated.
// There is no ordering guarantee between sheets; each one produces exactly
// one outcome.
func (s *batchScanService) recognizeAll(ctx context.Context, worker scanner.Worker, key *AnswerKey, sheets []SheetImage) []sheetOutcome {
	sem := semaphore.NewWeighted(s.maxInFlight)
	outcomes := make([]sheetOutcome, len(sheets))

	var wg sync.WaitGroup
	for i := range sheets {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sheet := sheets[idx]

			if err := sem.Acquire(ctx, 1); err != nil {
				outcomes[idx] = sheetOutcome{failure: &scanner.RecognitionError{
					File:    sheet.OriginalFilename,
					Message: fmt.Sprintf("batch canceled: %v", err),
				}}
				return
			}
			defer sem.Release(1)

			result, err := worker.Recognize(ctx, sheet.Path, key.CorrectAnswers)
			if err != nil {
				var recErr *scanner.RecognitionError
				if !errors.As(err, &recErr) {
					recErr = &scanner.RecognitionError{File: sheet.OriginalFilename, Message: err.Error()}
				}
				if recErr.File == "" || recErr.File == sheet.Path {
					recErr.File = sheet.OriginalFilename
				}
				log.Warn().Str("file", sheet.OriginalFilename).Str("reason", recErr.Message).Msg("Sheet recognition failed")
				outcomes[idx] = sheetOutcome{failure: recErr}
				return
			}

			result.OriginalFilename = sheet.OriginalFilename
			result.ProcessedFilePath = sheet.Path
			outcomes[idx] = sheetOutcome{result: result}
		}(i)
	}
	wg.Wait()

	return outcomes
}
