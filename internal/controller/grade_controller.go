package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/omidh/sheetgrade/internal/dto"
	"github.com/omidh/sheetgrade/internal/service"
	"github.com/rs/zerolog/log"
)

type GradeController struct {
	monthlyGradeService service.MonthlyGradeService
}

func NewGradeController(monthlyGradeService service.MonthlyGradeService) *GradeController {
	return &GradeController{monthlyGradeService: monthlyGradeService}
}

// GetMonthlyGrades godoc
// @Summary Monthly grade report for one student
// @Description Aggregates class-sheet grade and assessment entries per course per Persian month and applies the normalized final-score formula. Recomputed on every read.
// @Tags Grades
// @Produce json
// @Param student_code query string true "Student code"
// @Param year query int false "Persian year (defaults to the current one)"
// @Success 200 {object} dto.MonthlyGradeReportDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /grades/monthly [get]
func (c *GradeController) GetMonthlyGrades(ctx *gin.Context) {
	studentCode := ctx.Query("student_code")
	if studentCode == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "student_code is required"})
		return
	}

	year := service.CurrentPersianYear()
	if yearStr := ctx.Query("year"); yearStr != "" {
		parsed, err := strconv.Atoi(yearStr)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid year format"})
			return
		}
		year = parsed
	}

	report, err := c.monthlyGradeService.MonthlyReport(studentCode, year)
	if err != nil {
		log.Error().Err(err).Str("studentCode", studentCode).Msg("GetMonthlyGrades: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to build monthly report", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, report)
}
