package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"github.com/omidh/sheetgrade/config"
	"github.com/omidh/sheetgrade/internal/dto"
	"github.com/omidh/sheetgrade/internal/scanner"
	"github.com/omidh/sheetgrade/internal/service"
	"github.com/rs/zerolog/log"
)

type ScanController struct {
	batchScanService   service.BatchScanService
	singleScanService  service.SingleScanService
	manualEntryService service.ManualEntryService
	answerKeyService   service.AnswerKeyService
	sheetStorage       service.SheetStorageService
	defaultVariant     string
}

func NewScanController(
	batchScanService service.BatchScanService,
	singleScanService service.SingleScanService,
	manualEntryService service.ManualEntryService,
	answerKeyService service.AnswerKeyService,
	sheetStorage service.SheetStorageService,
	cfg *config.Config,
) *ScanController {
	return &ScanController{
		batchScanService:   batchScanService,
		singleScanService:  singleScanService,
		manualEntryService: manualEntryService,
		answerKeyService:   answerKeyService,
		sheetStorage:       sheetStorage,
		defaultVariant:     cfg.Scan.DefaultVariant,
	}
}

// BatchScan godoc
// @Summary Scan a batch of answer-sheet images for one exam
// @Description Uploads N sheet images, runs one recognition worker per image concurrently, grades and persists every readable sheet. Partial success is the normal outcome; unreadable sheets come back in "failed".
// @Tags Scan
// @Accept mpfd
// @Produce json
// @Param exam_id formData int true "Exam ID"
// @Param scanner formData string false "Worker variant (scanner, scanner2, scanner3, scanner4)"
// @Param files formData file true "Sheet images"
// @Success 200 {object} dto.BatchScanReport
// @Failure 400 {object} dto.ErrorResponse "Missing exam, no files, or unknown worker variant"
// @Failure 404 {object} dto.ErrorResponse "Exam or question set not found"
// @Failure 500 {object} dto.ErrorResponse "Persistence failure"
// @Router /scan/batch [post]
func (c *ScanController) BatchScan(ctx *gin.Context) {
	examID, ok := c.examIDFromForm(ctx)
	if !ok {
		return
	}

	variant := ctx.PostForm("scanner")
	if variant == "" {
		variant = c.defaultVariant
	}
	// Reject an unlisted variant before any image is written to disk or any
	// process spawned.
	if !scanner.VariantAllowed(variant) {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Unknown scanner variant: " + variant})
		return
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid multipart form", Details: []string{err.Error()}})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "No files were uploaded"})
		return
	}

	sheets := make([]service.SheetImage, 0, len(files))
	for _, fileHeader := range files {
		sheet, err := c.sheetStorage.SaveUpload(ctx.Request.Context(), fileHeader)
		if err != nil {
			log.Error().Err(err).Str("file", fileHeader.Filename).Msg("BatchScan: failed to save upload")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to save uploaded file", Details: []string{err.Error()}})
			return
		}
		sheets = append(sheets, sheet)
	}

	report, err := c.batchScanService.RunBatch(ctx.Request.Context(), examID, sheets, variant)
	if err != nil {
		c.renderScanError(ctx, err, report)
		return
	}
	ctx.JSON(http.StatusOK, report)
}

// ScanSheet godoc
// @Summary Scan a single answer sheet, resolving the exam from the sheet itself
// @Description Mobile flow: the identity payload on the sheet carries studentCode-examCode, so no exam ID is supplied. Two recognition passes run: one to read the identity, one against the real key.
// @Tags Scan
// @Accept mpfd
// @Produce json
// @Param scanner formData string false "Worker variant"
// @Param file formData file true "Sheet image"
// @Success 200 {object} dto.SheetScanResponse
// @Failure 400 {object} dto.ErrorResponse "Missing file, unknown variant, or unreadable identity payload"
// @Failure 404 {object} dto.ErrorResponse "Exam or question set not found"
// @Failure 500 {object} dto.ErrorResponse
// @Router /scan/sheet [post]
func (c *ScanController) ScanSheet(ctx *gin.Context) {
	variant := ctx.PostForm("scanner")
	if variant == "" {
		variant = c.defaultVariant
	}
	if !scanner.VariantAllowed(variant) {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Unknown scanner variant: " + variant})
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "An image file is required"})
		return
	}

	sheet, err := c.sheetStorage.SaveUpload(ctx.Request.Context(), fileHeader)
	if err != nil {
		log.Error().Err(err).Str("file", fileHeader.Filename).Msg("ScanSheet: failed to save upload")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to save uploaded file", Details: []string{err.Error()}})
		return
	}

	resp, err := c.singleScanService.ScanSheet(ctx.Request.Context(), sheet.Path, sheet.OriginalFilename, variant)
	if err != nil {
		c.renderScanError(ctx, err, nil)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ManualEntry godoc
// @Summary Save a manually-entered result for one student
// @Description Accepts a directly-typed result document (no image, no worker) and persists it through the same grading path as the optical routes, so both entry points produce identical records.
// @Tags Scan
// @Accept json
// @Produce json
// @Param request body dto.ManualScanRequest true "Exam, student, and the typed result"
// @Success 200 {object} dto.ManualScanResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Exam or question set not found"
// @Failure 500 {object} dto.ErrorResponse
// @Router /scan/manual [post]
func (c *ScanController) ManualEntry(ctx *gin.Context) {
	var req dto.ManualScanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := c.manualEntryService.SaveResult(req.ExamID, req.StudentCode, &req.ScanResult)
	if err != nil {
		c.renderScanError(ctx, err, nil)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetAnswerKey godoc
// @Summary Get an exam's answer key in print order
// @Description Returns the ordered question list and the parallel correct-option vector used for grading and sheet printing.
// @Tags Scan
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Success 200 {object} dto.AnswerKeyResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid exam ID"
// @Failure 404 {object} dto.ErrorResponse "Exam has no questions"
// @Router /exams/{exam_id}/answer-key [get]
func (c *ScanController) GetAnswerKey(ctx *gin.Context) {
	examIDStr := ctx.Param("exam_id")
	examID, err := strconv.ParseUint(examIDStr, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid exam ID format"})
		return
	}

	key, err := c.answerKeyService.LoadAnswerKey(uint(examID))
	if err != nil {
		c.renderScanError(ctx, err, nil)
		return
	}

	resp := dto.AnswerKeyResponse{
		ExamID:         key.ExamID,
		QuestionCount:  len(key.Questions),
		CorrectAnswers: key.CorrectAnswers,
		Questions:      make([]dto.QuestionKeyDTO, len(key.Questions)),
	}
	for i, q := range key.Questions {
		var keyDTO dto.QuestionKeyDTO
		copier.Copy(&keyDTO, &q)
		keyDTO.QuestionID = q.ID
		keyDTO.Position = i + 1
		keyDTO.CorrectOption = key.CorrectAnswers[i]
		resp.Questions[i] = keyDTO
	}
	ctx.JSON(http.StatusOK, resp)
}

func (c *ScanController) examIDFromForm(ctx *gin.Context) (uint, bool) {
	examIDStr := ctx.PostForm("exam_id")
	if examIDStr == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Exam ID is required"})
		return 0, false
	}
	examID, err := strconv.ParseUint(examIDStr, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid exam ID format"})
		return 0, false
	}
	return uint(examID), true
}

// renderScanError maps pipeline errors onto status codes. A non-nil report
// means recognition finished and persistence failed midway; the partial
// report rides along so the caller can see which students were written.
func (c *ScanController) renderScanError(ctx *gin.Context, err error, report *dto.BatchScanReport) {
	switch {
	case errors.Is(err, scanner.ErrUnknownVariant):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrExamNotFound), errors.Is(err, service.ErrNoQuestions):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrIdentityUnreadable):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	default:
		log.Error().Err(err).Msg("Scan pipeline error")
		if report != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": err.Error(), "partial": report})
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: err.Error()})
	}
}
