package service

import (
	"fmt"
	"time"

	"github.com/omidh/sheetgrade/internal/model"
	"github.com/omidh/sheetgrade/internal/repository"
	"github.com/rs/zerolog/log"
	ptime "github.com/yaa110/go-persian-calendar"
)

// ReconcileService upserts one student's graded outcome into both stores:
// the live participation record and the canonical submission record. Both
// writes are fed from the same derived answer set, so the records cannot
// diverge in content; re-running the same reconciliation yields identical
// records (overwrite semantics, never append). A crash between the two
// writes is repaired by retrying the whole reconciliation.
type ReconcileService interface {
	Reconcile(exam *model.Exam, studentCode string, answers model.GradedAnswerList, summary model.ScoreSummary, scan *model.ScanResult) error
}

type reconcileService struct {
	participantRepo repository.ParticipantRepository
	submissionRepo  repository.SubmissionRepository
	now             func() time.Time
}

func NewReconcileService(participantRepo repository.ParticipantRepository, submissionRepo repository.SubmissionRepository) ReconcileService {
	return &reconcileService{
		participantRepo: participantRepo,
		submissionRepo:  submissionRepo,
		now:             time.Now,
	}
}

func (s *reconcileService) Reconcile(exam *model.Exam, studentCode string, answers model.GradedAnswerList, summary model.ScoreSummary, scan *model.ScanResult) error {
	now := s.now()

	if err := s.reconcileParticipant(exam.ID, studentCode, answers, summary, scan); err != nil {
		return fmt.Errorf("participant record for student %s: %w", studentCode, err)
	}
	if err := s.reconcileSubmission(exam, studentCode, answers, summary, scan, now); err != nil {
		return fmt.Errorf("submission record for student %s: %w", studentCode, err)
	}

	log.Info().
		Uint("examID", exam.ID).
		Str("studentCode", studentCode).
		Float64("sumScore", summary.SumScore).
		Int("correct", summary.CorrectAnswerCount).
		Msg("Graded result reconciled")
	return nil
}

func (s *reconcileService) reconcileParticipant(examID uint, studentCode string, answers model.GradedAnswerList, summary model.ScoreSummary, scan *model.ScanResult) error {
	existing, err := s.participantRepo.FindByExamAndStudent(examID, studentCode)
	if err != nil {
		return err
	}

	if existing != nil {
		// Overwrite only the scan-derived fields; entry timestamps and
		// anything else the live-exam flow wrote stay untouched.
		return s.participantRepo.UpdateDerivedFields(existing.ID, map[string]interface{}{
			"answers":              answers,
			"sum_score":            summary.SumScore,
			"max_score":            summary.MaxScore,
			"correct_answer_count": summary.CorrectAnswerCount,
			"wrong_answer_count":   summary.WrongAnswerCount,
			"unanswered_count":     summary.UnansweredCount,
			"grading_status":       model.GradingStatusScanned,
			"scan_result":          scan,
		})
	}

	return s.participantRepo.Create(&model.ExamParticipant{
		ExamID:             examID,
		StudentCode:        studentCode,
		Answers:            answers,
		SumScore:           summary.SumScore,
		MaxScore:           summary.MaxScore,
		CorrectAnswerCount: summary.CorrectAnswerCount,
		WrongAnswerCount:   summary.WrongAnswerCount,
		UnansweredCount:    summary.UnansweredCount,
		GradingStatus:      model.GradingStatusScanned,
		ScanResult:         scan,
	})
}

func (s *reconcileService) reconcileSubmission(exam *model.Exam, studentCode string, answers model.GradedAnswerList, summary model.ScoreSummary, scan *model.ScanResult, now time.Time) error {
	existing, err := s.submissionRepo.FindByExamAndStudent(exam.ID, studentCode)
	if err != nil {
		return err
	}

	qrCodeData := studentCode
	if scan != nil && scan.QRCodeData != "" {
		qrCodeData = scan.QRCodeData
	}

	if existing != nil {
		return s.submissionRepo.UpdateDerivedFields(existing.ID, map[string]interface{}{
			"answers":              answers,
			"is_finished":          true,
			"last_saved_time":      now,
			"sum_score":            summary.SumScore,
			"max_score":            summary.MaxScore,
			"correct_answer_count": summary.CorrectAnswerCount,
			"wrong_answer_count":   summary.WrongAnswerCount,
			"unanswered_count":     summary.UnansweredCount,
			"grading_status":       model.GradingStatusScanned,
			"grading_time":         now,
			"scan_result":          scan,
			"qr_code_data":         qrCodeData,
		})
	}

	return s.submissionRepo.Create(&model.ExamSubmission{
		ExamID:             exam.ID,
		StudentCode:        studentCode,
		SchoolCode:         exam.SchoolCode,
		EntryTime:          &now,
		EntryDate:          &now,
		PersianEntryDate:   ptime.New(now).Format("yyyy/MM/dd HH:mm:ss"),
		Answers:            answers,
		IsFinished:         true,
		LastSavedTime:      &now,
		SumScore:           summary.SumScore,
		MaxScore:           summary.MaxScore,
		CorrectAnswerCount: summary.CorrectAnswerCount,
		WrongAnswerCount:   summary.WrongAnswerCount,
		UnansweredCount:    summary.UnansweredCount,
		GradingStatus:      model.GradingStatusScanned,
		GradingTime:        &now,
		ScanResult:         scan,
		QRCodeData:         qrCodeData,
	})
}
