package scanner

import (
	"context"
	"errors"
	"fmt"

	"github.com/omidh/sheetgrade/internal/model"
)

// Worker recognizes one answer-sheet image. Implementations are expected to
// be crash-prone and non-deterministic (the real one shells out to an OMR
// script), so every invocation is isolated: one image in, one result or one
// error out, nothing shared between calls.
type Worker interface {
	Recognize(ctx context.Context, imagePath string, correctAnswers []int) (*model.ScanResult, error)
}

// Factory validates a variant selection and hands back a Worker for it.
// Validation happens here, before any image is written or process spawned.
type Factory interface {
	NewWorker(variant string) (Worker, error)
}

// ErrUnknownVariant rejects a scanner selection outside the allow-list.
// This is a configuration error: the whole batch stops before dispatch.
var ErrUnknownVariant = errors.New("scanner: unknown worker variant")

// allowedVariants is the fixed allow-list of shipped scanner scripts. The
// variant becomes part of the spawned script path, so nothing outside this
// list may ever reach the exec layer.
var allowedVariants = map[string]bool{
	"scanner":  true,
	"scanner2": true,
	"scanner3": true,
	"scanner4": true,
}

// VariantAllowed reports whether variant names a shipped scanner script.
func VariantAllowed(variant string) bool {
	return allowedVariants[variant]
}

// RecognitionError is the per-image failure: spawn error, non-zero exit, or
// unparsable stdout. It is collected and reported, never fatal for siblings.
type RecognitionError struct {
	File    string `json:"file"`
	Message string `json:"error"`
	Raw     string `json:"raw,omitempty"` // stdout that failed to parse, for diagnostics
}

func (e *RecognitionError) Error() string {
	return fmt.Sprintf("recognition failed for %s: %s", e.File, e.Message)
}
