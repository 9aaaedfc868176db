package scanner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/omidh/sheetgrade/config"
	"github.com/omidh/sheetgrade/internal/model"
	"github.com/rs/zerolog/log"
)

// execFactory builds execWorkers from the process-wide scan config.
type execFactory struct {
	cfg config.Scan
}

func NewExecFactory(cfg *config.Config) Factory {
	return &execFactory{cfg: cfg.Scan}
}

func (f *execFactory) NewWorker(variant string) (Worker, error) {
	if variant == "" {
		variant = f.cfg.DefaultVariant
	}
	if !VariantAllowed(variant) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, variant)
	}
	timeout := time.Duration(f.cfg.WorkerTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &execWorker{
		pythonBin:  f.cfg.PythonBin,
		scriptPath: filepath.Join(f.cfg.ScriptDir, variant+".py"),
		scriptDir:  f.cfg.ScriptDir,
		timeout:    timeout,
	}, nil
}

// execWorker runs one scanner script invocation per image:
//
//	<pythonBin> <scriptDir>/<variant>.py <absImagePath> <json correct answers>
//
// stdout is the result document, stderr is diagnostics. The timeout converts
// a hung scanner into a RecognitionError instead of blocking its batch slot
// forever (the upstream behavior was to wait indefinitely).
type execWorker struct {
	pythonBin  string
	scriptPath string
	scriptDir  string
	timeout    time.Duration
}

func (w *execWorker) Recognize(ctx context.Context, imagePath string, correctAnswers []int) (*model.ScanResult, error) {
	answersJSON, err := json.Marshal(correctAnswers)
	if err != nil {
		return nil, &RecognitionError{File: imagePath, Message: fmt.Sprintf("encode answer key: %v", err)}
	}

	absPath, err := filepath.Abs(imagePath)
	if err != nil {
		return nil, &RecognitionError{File: imagePath, Message: fmt.Sprintf("resolve image path: %v", err)}
	}

	runCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, w.pythonBin, w.scriptPath, absPath, string(answersJSON))
	cmd.Dir = w.scriptDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug().Str("script", w.scriptPath).Str("image", absPath).Msg("Spawning scanner process")

	if err := cmd.Run(); err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return nil, &RecognitionError{File: imagePath, Message: fmt.Sprintf("scanner timed out after %s", w.timeout)}
		}
		msg := stderr.String()
		if msg == "" {
			msg = err.Error()
		}
		return nil, &RecognitionError{File: imagePath, Message: msg}
	}

	return ParseResult(stdout.Bytes(), imagePath)
}

// ParseResult decodes the scanner's stdout document. Anything that is not the
// expected JSON shape is a per-image failure carrying the raw output.
func ParseResult(stdout []byte, imagePath string) (*model.ScanResult, error) {
	var result model.ScanResult
	if err := json.Unmarshal(stdout, &result); err != nil {
		return nil, &RecognitionError{
			File:    imagePath,
			Message: "invalid JSON from scanner",
			Raw:     string(stdout),
		}
	}
	result.CorrectedImageURL = NormalizeCorrectedImageURL(result.CorrectedImageURL)
	return &result, nil
}

// NormalizeCorrectedImageURL strips the scanner's filesystem-relative
// "public/" prefix so the stored URL is servable as-is.
func NormalizeCorrectedImageURL(url string) string {
	if url == "" {
		return url
	}
	for _, prefix := range []string{"../public/", "public/"} {
		if len(url) >= len(prefix) && url[:len(prefix)] == prefix {
			return "/" + url[len(prefix):]
		}
	}
	return url
}
