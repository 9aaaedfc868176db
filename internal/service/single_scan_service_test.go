package service

import (
	"context"
	"errors"
	"testing"

	"github.com/omidh/sheetgrade/internal/model"
	"github.com/omidh/sheetgrade/internal/scanner"
)

func newSingleScanFixture(worker *fakeWorker) (SingleScanService, *fakeAnswerKeySvc, *fakeReconcileSvc) {
	factory := &fakeFactory{worker: worker}
	keySvc := &fakeAnswerKeySvc{key: &AnswerKey{
		ExamID:         1,
		Questions:      []model.ExamQuestion{{ID: 1, ExamID: 1, MaxScore: 1}, {ID: 2, ExamID: 1, MaxScore: 1}},
		CorrectAnswers: []int{1, 2},
	}}
	reconciler := &fakeReconcileSvc{}
	examRepo := &fakeExamRepo{exams: map[uint]*model.Exam{1: {ID: 1, Title: "Midterm", ExamCode: "EX01"}}}
	return NewSingleScanService(examRepo, keySvc, NewScoreService(), reconciler, factory), keySvc, reconciler
}

func TestScanSheetRunsTwoPasses(t *testing.T) {
	worker := &fakeWorker{}
	svc, keySvc, reconciler := newSingleScanFixture(worker)

	resp, err := svc.ScanSheet(context.Background(), "img1.jpg", "photo.jpg", "scanner2")
	if err != nil {
		t.Fatalf("ScanSheet() error = %v", err)
	}

	if len(worker.invoked) != 2 {
		t.Fatalf("worker invoked %d times, want 2 (identity pass then grading pass)", len(worker.invoked))
	}
	// Pass one runs before the exam is known, so its key is the throwaway.
	first := worker.keys[0]
	if len(first) != 120 {
		t.Errorf("identity pass key length = %d, want 120", len(first))
	}
	for i, v := range first {
		if v != 1 {
			t.Fatalf("identity pass key[%d] = %d, want all 1s", i, v)
		}
	}
	second := worker.keys[1]
	if len(second) != 2 || second[0] != 1 || second[1] != 2 {
		t.Errorf("grading pass key = %v, want the exam's real key", second)
	}
	if keySvc.calls != 1 {
		t.Errorf("answer key loaded %d times, want 1", keySvc.calls)
	}

	if resp.StudentCode != "stu_img1.jpg" || resp.ExamCode != "EX01" {
		t.Errorf("resolved identity = %q / %q", resp.StudentCode, resp.ExamCode)
	}
	if resp.ExamName != "Midterm" {
		t.Errorf("ExamName = %q", resp.ExamName)
	}
	if resp.TotalQuestions != 2 {
		t.Errorf("TotalQuestions = %d, want 2", resp.TotalQuestions)
	}

	if len(reconciler.calls) != 1 {
		t.Fatalf("reconciled %d times, want 1", len(reconciler.calls))
	}
	if reconciler.calls[0].studentCode != "stu_img1.jpg" {
		t.Errorf("reconciled student = %q", reconciler.calls[0].studentCode)
	}
}

func TestScanSheetUnreadableIdentity(t *testing.T) {
	worker := &fakeWorker{noQRPaths: map[string]bool{"img1.jpg": true}}
	svc, _, reconciler := newSingleScanFixture(worker)

	_, err := svc.ScanSheet(context.Background(), "img1.jpg", "photo.jpg", "scanner2")
	if !errors.Is(err, ErrIdentityUnreadable) {
		t.Fatalf("ScanSheet() error = %v, want ErrIdentityUnreadable", err)
	}
	if len(worker.invoked) != 1 {
		t.Errorf("worker invoked %d times, want 1 (no grading pass without identity)", len(worker.invoked))
	}
	if len(reconciler.calls) != 0 {
		t.Error("nothing should be persisted for an unattributable sheet")
	}
}

func TestScanSheetUnknownVariant(t *testing.T) {
	worker := &fakeWorker{}
	svc, _, _ := newSingleScanFixture(worker)

	_, err := svc.ScanSheet(context.Background(), "img1.jpg", "photo.jpg", "nope")
	if !errors.Is(err, scanner.ErrUnknownVariant) {
		t.Fatalf("ScanSheet() error = %v, want ErrUnknownVariant", err)
	}
	if len(worker.invoked) != 0 {
		t.Error("worker invoked despite rejected variant")
	}
}

func TestScanSheetRecognitionFailure(t *testing.T) {
	worker := &fakeWorker{failPaths: map[string]bool{"img1.jpg": true}}
	svc, _, reconciler := newSingleScanFixture(worker)

	_, err := svc.ScanSheet(context.Background(), "img1.jpg", "photo.jpg", "scanner2")
	var recErr *scanner.RecognitionError
	if !errors.As(err, &recErr) {
		t.Fatalf("ScanSheet() error = %v, want a RecognitionError", err)
	}
	if len(reconciler.calls) != 0 {
		t.Error("nothing should be persisted after a failed recognition")
	}
}
